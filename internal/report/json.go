package report

import (
	"encoding/json"
	"io"

	"github.com/ShayCichocki/scenguard/pkg/models"
)

// WriteJSON writes the report to w as indented JSON, suitable for piping
// into jq or archiving next to CI artifacts.
func WriteJSON(w io.Writer, report models.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
