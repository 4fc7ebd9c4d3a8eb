package lint

import "strings"

// IsExempt reports whether nested selector describes a state or part of its
// parent (pseudo-class, pseudo-element or attribute selector). Such children
// are expected to override and are never compared with the parent.
//
// Classification is lexical on purpose, ":" inside a string or :is() counts
// too.
func IsExempt(selector string) bool {
	switch {
	case strings.Contains(selector, "::"):
		return true
	case strings.Contains(selector, ":"):
		return true
	case strings.Contains(selector, "[") && strings.Contains(selector, "]"):
		return true
	default:
		return false
	}
}
