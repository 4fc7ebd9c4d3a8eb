package lint

import (
	"go.uber.org/zap"

	"nestlint/css"
)

// Options controls the override check.
type Options struct {
	Enabled bool
	// Transitive makes shorthands override longhands of their own longhands
	// ("border" vs "border-top-width").
	Transitive bool
}

// Sink receives diagnostics in the order they are found.
type Sink func(Diagnostic)

// Checker finds properties of rules overridden by their nested rules.
// Checker holds no state between calls and may be shared.
type Checker struct {
	opts Options
	log  *zap.Logger
}

// NewChecker creates checker with given options.
func NewChecker(opts Options, log *zap.Logger) *Checker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Checker{opts: opts, log: log.Named("lint")}
}

// Check runs override detection over the whole stylesheet.
func (c *Checker) Check(sheet *css.Stylesheet, sink Sink) {
	if !c.opts.Enabled {
		return
	}
	for _, root := range sheet.Roots {
		c.CheckRoot(sheet, root, sink)
	}
}

// CheckRoot runs override detection over subtree of a single top-level node.
func (c *Checker) CheckRoot(sheet *css.Stylesheet, root css.NodeID, sink Sink) {
	if !c.opts.Enabled {
		return
	}
	sheet.WalkFrom(root, func(id css.NodeID, n *css.Node) bool {
		switch n.Kind {
		case css.NodeRule:
			c.checkRule(sheet, id, n, sink)
		case css.NodeAtRule, css.NodeDeclaration:
		}
		return true
	})
}

// checkRule compares rule with each of its direct nested rules.
func (c *Checker) checkRule(sheet *css.Stylesheet, id css.NodeID, n *css.Node, sink Sink) {
	parent := OwnDeclarations(sheet, id)
	if parent.Len() == 0 {
		return
	}
	parentPath := sheet.FullSelector(id)

	for _, cid := range n.Rule.Children {
		child := sheet.Node(cid)
		if child.Kind != css.NodeRule {
			continue
		}
		if IsExempt(child.Rule.Selector) {
			c.log.Debug("Skipping exempt selector",
				zap.String("parent", parentPath),
				zap.String("selector", child.Rule.Selector),
				zap.Stringer("loc", child.Loc))
			continue
		}

		childPath := parentPath + child.Rule.Selector
		for _, o := range FindOverrides(parent, OwnDeclarations(sheet, cid), c.opts.Transitive) {
			sink(Diagnostic{
				Rule:           RuleName,
				Overridden:     o.Overridden,
				Overriding:     o.Overriding,
				ParentSelector: parentPath,
				ChildSelector:  childPath,
				Node:           o.Decl,
				Loc:            sheet.Node(o.Decl).Loc,
			})
		}
	}
}

// Collect runs the check and returns all diagnostics.
func Collect(sheet *css.Stylesheet, opts Options) []Diagnostic {
	var res []Diagnostic
	NewChecker(opts, nil).Check(sheet, func(d Diagnostic) {
		res = append(res, d)
	})
	return res
}
