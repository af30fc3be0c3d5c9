package scan

import (
	"fmt"
	"strings"
)

// Matcher decides whether an artifact references a resource. Implementations
// must be safe for concurrent use.
type Matcher interface {
	// Matches reports whether the text references the named resource.
	Matches(text, resource string) bool
}

// SubstringMatcher matches when the resource name appears anywhere in the
// text. This is cheap and catches generated artifacts reliably, but a
// resource whose name embeds in a longer word produces false positives.
type SubstringMatcher struct{}

// Matches reports whether resource is a substring of text.
func (SubstringMatcher) Matches(text, resource string) bool {
	if resource == "" {
		return false
	}
	return strings.Contains(text, resource)
}

// WordMatcher matches only when the resource name appears as a whole token,
// delimited by characters that cannot be part of an identifier. Stricter
// than SubstringMatcher: "pagila" does not match inside "pagila_backup".
type WordMatcher struct{}

// Matches reports whether resource appears in text as a whole token.
func (WordMatcher) Matches(text, resource string) bool {
	if resource == "" {
		return false
	}
	for start := 0; ; {
		idx := strings.Index(text[start:], resource)
		if idx < 0 {
			return false
		}
		i := start + idx
		end := i + len(resource)
		if (i == 0 || !isWordByte(text[i-1])) && (end == len(text) || !isWordByte(text[end])) {
			return true
		}
		start = i + 1
	}
}

// isWordByte reports whether b can be part of an identifier. Resource names
// are ASCII identifiers, so a byte-level test is sufficient.
func isWordByte(b byte) bool {
	return b == '_' ||
		'a' <= b && b <= 'z' ||
		'A' <= b && b <= 'Z' ||
		'0' <= b && b <= '9'
}

// MatcherByName returns the matcher registered under the given name.
// The empty name selects the default substring matcher.
func MatcherByName(name string) (Matcher, error) {
	switch name {
	case "", "substring":
		return SubstringMatcher{}, nil
	case "word":
		return WordMatcher{}, nil
	default:
		return nil, fmt.Errorf("unknown matcher %q", name)
	}
}
