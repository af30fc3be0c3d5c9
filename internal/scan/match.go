package scan

import "strings"

// matchGlob matches a slash-separated relative path against a glob pattern.
// "**" spans any number of path segments, "*" matches within one segment.
func matchGlob(path, pattern string) bool {
	return matchSegments(strings.Split(path, "/"), strings.Split(pattern, "/"))
}

// matchSegments recursively matches path segments against pattern segments.
func matchSegments(path, pattern []string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}

	head := pattern[0]
	rest := pattern[1:]

	if head == "**" {
		if len(rest) == 0 {
			return true
		}
		for i := 0; i <= len(path); i++ {
			if matchSegments(path[i:], rest) {
				return true
			}
		}
		return false
	}

	if len(path) == 0 || !matchSegment(path[0], head) {
		return false
	}
	return matchSegments(path[1:], rest)
}

// matchSegment matches one path segment against one pattern segment.
func matchSegment(segment, pattern string) bool {
	if pattern == "*" || pattern == segment {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return false
	}

	parts := strings.Split(pattern, "*")
	pos := 0
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 {
			if !strings.HasPrefix(segment, part) {
				return false
			}
			pos = len(part)
			continue
		}
		if i == len(parts)-1 && !strings.HasSuffix(pattern, "*") {
			return strings.HasSuffix(segment, part) && strings.Index(segment[pos:], part) >= 0
		}
		idx := strings.Index(segment[pos:], part)
		if idx == -1 {
			return false
		}
		pos += idx + len(part)
	}
	return true
}
