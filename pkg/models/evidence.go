package models

// SkippedArtifact records an artifact that matched a category location but
// could not be inspected.
type SkippedArtifact struct {
	// Category is the evidence category the artifact belonged to.
	Category Category `json:"category"`
	// Path is the corpus-relative path of the artifact.
	Path string `json:"path"`
	// Reason describes why the artifact was skipped.
	Reason string `json:"reason"`
}

// Evidence is the per-resource scan result: for every configured category,
// the corpus-relative paths of artifacts that reference the resource.
// Paths within a category are sorted so repeated scans of an unchanged
// corpus produce identical evidence.
type Evidence struct {
	// Resource is the resource name the evidence was collected for.
	Resource string `json:"resource"`
	// Locations maps each category to the artifacts referencing the resource.
	// Every configured category has an entry, possibly empty.
	Locations map[Category][]string `json:"locations"`
	// Skipped lists artifacts that could not be read during the scan.
	Skipped []SkippedArtifact `json:"skipped,omitempty"`
	// OwnerDocumented is true when a documentation artifact that references
	// the resource also mentions its registered owner contact.
	OwnerDocumented bool `json:"owner_documented,omitempty"`
}

// Found returns true if at least one artifact was recorded for the category.
func (e Evidence) Found(c Category) bool {
	return len(e.Locations[c]) > 0
}

// Files returns the artifacts recorded for the category.
func (e Evidence) Files(c Category) []string {
	return e.Locations[c]
}

// SkippedIn returns the skipped artifacts belonging to the category.
func (e Evidence) SkippedIn(c Category) []SkippedArtifact {
	var out []SkippedArtifact
	for _, s := range e.Skipped {
		if s.Category == c {
			out = append(out, s)
		}
	}
	return out
}
