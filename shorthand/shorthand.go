// Package shorthand knows which CSS shorthand properties control which
// longhand properties. Overlap is decided from property names only, values
// are never looked at: "margin: 0" overrides every margin side just like
// "margin: 1px 2px 3px 4px" does.
package shorthand

import (
	"slices"
)

// table maps a shorthand to the properties it sets directly. Some of the
// longhands are shorthands themselves (border -> border-top ->
// border-top-width), see Longhands for the transitive view.
var table = map[string][]string{
	"margin":        {"margin-top", "margin-right", "margin-bottom", "margin-left"},
	"padding":       {"padding-top", "padding-right", "padding-bottom", "padding-left"},
	"border":        {"border-width", "border-style", "border-color", "border-top", "border-right", "border-bottom", "border-left"},
	"border-width":  {"border-top-width", "border-right-width", "border-bottom-width", "border-left-width"},
	"border-style":  {"border-top-style", "border-right-style", "border-bottom-style", "border-left-style"},
	"border-color":  {"border-top-color", "border-right-color", "border-bottom-color", "border-left-color"},
	"border-top":    {"border-top-width", "border-top-style", "border-top-color"},
	"border-right":  {"border-right-width", "border-right-style", "border-right-color"},
	"border-bottom": {"border-bottom-width", "border-bottom-style", "border-bottom-color"},
	"border-left":   {"border-left-width", "border-left-style", "border-left-color"},
	"border-radius": {"border-top-left-radius", "border-top-right-radius", "border-bottom-right-radius", "border-bottom-left-radius"},
	"background":    {"background-color", "background-image", "background-position", "background-size", "background-repeat", "background-origin", "background-clip", "background-attachment"},
	"font":          {"font-style", "font-variant", "font-weight", "font-size", "line-height", "font-family"},
	"flex":          {"flex-grow", "flex-shrink", "flex-basis"},
	"flex-flow":     {"flex-direction", "flex-wrap"},
}

// closure is the transitive expansion of table, computed once.
var closure = expandAll(table)

func expandAll(t map[string][]string) map[string][]string {
	out := make(map[string][]string, len(t))
	for name := range t {
		var (
			list []string
			seen = make(map[string]bool)
		)
		var visit func(string)
		visit = func(n string) {
			for _, l := range t[n] {
				if seen[l] {
					continue
				}
				seen[l] = true
				list = append(list, l)
				visit(l)
			}
		}
		visit(name)
		out[name] = list
	}
	return out
}

// IsShorthand reports whether name is a known shorthand property.
func IsShorthand(name string) bool {
	_, ok := table[name]
	return ok
}

// Names returns all known shorthand names sorted alphabetically.
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ExpandsTo returns the longhands name sets directly, in table order. Result
// is nil for anything that is not a shorthand.
func ExpandsTo(name string) []string {
	return slices.Clone(table[name])
}

// Longhands returns every property name controls, following nested
// shorthands depth first.
func Longhands(name string) []string {
	return slices.Clone(closure[name])
}

// Overrides reports whether declaring candidate makes a declaration of target
// ineffective: same property, or target is a direct longhand of candidate.
func Overrides(candidate, target string) bool {
	if candidate == target {
		return true
	}
	return slices.Contains(table[candidate], target)
}

// OverridesTransitive is Overrides following nested shorthands, so "border"
// overrides "border-top-width" as well as "border-top".
func OverridesTransitive(candidate, target string) bool {
	if candidate == target {
		return true
	}
	return slices.Contains(closure[candidate], target)
}
