package lint

import (
	"nestlint/css"
	"nestlint/shorthand"
)

// Override is a single parent property made ineffective by a child property.
type Override struct {
	Overridden string     // parent property
	Overriding string     // child property
	Decl       css.NodeID // child declaration
}

// FindOverrides compares parent and child scopes. A child property present in
// the parent is reported as is and not checked any further. Otherwise every
// parent property the child property (as a shorthand) controls is reported.
// With transitive set shorthands of shorthands are expanded too, so "border"
// overrides "border-top-width".
//
// Results are ordered by child map order, then by parent map order.
func FindOverrides(parent, child *PropertyMap, transitive bool) []Override {
	overrides := shorthand.Overrides
	if transitive {
		overrides = shorthand.OverridesTransitive
	}

	var res []Override
	for p, decl := range child.All() {
		if parent.Has(p) {
			res = append(res, Override{Overridden: p, Overriding: p, Decl: decl})
			continue
		}
		for q := range parent.All() {
			if overrides(p, q) {
				res = append(res, Override{Overridden: q, Overriding: p, Decl: decl})
			}
		}
	}
	return res
}
