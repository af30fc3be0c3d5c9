// Package scan walks an artifact corpus and collects, per resource, the
// artifacts that reference it, bucketed into evidence categories. The scanner
// never interprets what the evidence means. That is the rule engine's job.
package scan

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ShayCichocki/scenguard/pkg/models"
)

// DefaultMaxFileSize caps how large an artifact the scanner will read.
const DefaultMaxFileSize = 8 << 20

// Location binds a set of glob patterns to the evidence category their
// matches belong to.
type Location struct {
	// Category is the evidence category for artifacts matching the patterns.
	Category models.Category `yaml:"category" mapstructure:"category"`
	// Patterns are corpus-relative glob expressions with ** support.
	Patterns []string `yaml:"patterns" mapstructure:"patterns"`
}

// Config carries the scanner's tunables. Zero values select the defaults.
type Config struct {
	// Locations overrides the default category location table.
	Locations []Location
	// Matcher decides whether artifact text references a resource.
	Matcher Matcher
	// MaxFileSize caps artifact reads in bytes.
	MaxFileSize int64
	// Owners maps resource names to owner contacts, used to flag ownership
	// mentions in documentation evidence.
	Owners map[string]string
	// Logger receives scan diagnostics.
	Logger zerolog.Logger
}

// Scanner collects evidence for resources from a corpus directory.
// A scanner is immutable after construction and safe for concurrent use.
type Scanner struct {
	root        string
	locations   []Location
	matcher     Matcher
	maxFileSize int64
	owners      map[string]string
	logger      zerolog.Logger
}

// New creates a scanner rooted at the corpus directory.
func New(root string, cfg Config) *Scanner {
	s := &Scanner{
		root:        root,
		locations:   cfg.Locations,
		matcher:     cfg.Matcher,
		maxFileSize: cfg.MaxFileSize,
		owners:      cfg.Owners,
		logger:      cfg.Logger,
	}
	if len(s.locations) == 0 {
		s.locations = DefaultLocations()
	}
	if s.matcher == nil {
		s.matcher = SubstringMatcher{}
	}
	if s.maxFileSize == 0 {
		s.maxFileSize = DefaultMaxFileSize
	}
	return s
}

// Root returns the corpus root the scanner was created with.
func (s *Scanner) Root() string {
	return s.root
}

// Scan walks the corpus and returns the evidence referencing the resource.
// Every configured category is present in the result, artifacts are recorded
// by corpus-relative path and sorted within each category. Artifacts that
// cannot be read are skipped and recorded, they never abort the scan.
func (s *Scanner) Scan(ctx context.Context, resource string) (models.Evidence, error) {
	ev := models.Evidence{
		Resource:  resource,
		Locations: make(map[models.Category][]string, len(s.locations)),
	}
	for _, loc := range s.locations {
		if _, ok := ev.Locations[loc.Category]; !ok {
			ev.Locations[loc.Category] = []string{}
		}
	}

	owner := s.owners[resource]

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == s.root {
				return walkErr
			}
			s.logger.Warn().Err(walkErr).Str("path", path).Msg("skipping unreadable corpus entry")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		categories := s.categoriesFor(rel)
		if len(categories) == 0 {
			return nil
		}

		content, skipReason := s.readArtifact(path, d)
		if skipReason != "" {
			for _, c := range categories {
				ev.Skipped = append(ev.Skipped, models.SkippedArtifact{
					Category: c,
					Path:     rel,
					Reason:   skipReason,
				})
			}
			s.logger.Warn().Str("artifact", rel).Str("reason", skipReason).Msg("artifact skipped")
			return nil
		}

		if !s.matcher.Matches(content, resource) && !s.matcher.Matches(d.Name(), resource) {
			return nil
		}

		for _, c := range categories {
			ev.Locations[c] = append(ev.Locations[c], rel)
			if c == models.CategoryDocumentation && owner != "" && s.matcher.Matches(content, owner) {
				ev.OwnerDocumented = true
			}
		}
		return nil
	})
	if err != nil {
		return models.Evidence{}, fmt.Errorf("scanning corpus for %s: %w", resource, err)
	}

	for c := range ev.Locations {
		sort.Strings(ev.Locations[c])
	}
	return ev, nil
}

// categoriesFor returns the categories whose patterns match the relative
// path, deduplicated in location order.
func (s *Scanner) categoriesFor(rel string) []models.Category {
	var out []models.Category
	seen := make(map[models.Category]bool)
	for _, loc := range s.locations {
		if seen[loc.Category] {
			continue
		}
		for _, pattern := range loc.Patterns {
			if matchGlob(rel, pattern) {
				out = append(out, loc.Category)
				seen[loc.Category] = true
				break
			}
		}
	}
	return out
}

// readArtifact reads an artifact as text. The second return value is a skip
// reason, empty when the read succeeded.
func (s *Scanner) readArtifact(path string, d fs.DirEntry) (string, string) {
	info, err := d.Info()
	if err != nil {
		return "", err.Error()
	}
	if info.Size() > s.maxFileSize {
		return "", fmt.Sprintf("file size %d exceeds limit %d", info.Size(), s.maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err.Error()
	}
	if isBinary(data) {
		return "", "binary content"
	}
	return string(data), ""
}

// isBinary reports whether data looks like binary rather than text.
func isBinary(data []byte) bool {
	probe := data
	if len(probe) > 8000 {
		probe = probe[:8000]
	}
	return bytes.IndexByte(probe, 0) >= 0
}
