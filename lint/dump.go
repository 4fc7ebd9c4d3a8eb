package lint

import (
	"fmt"

	"nestlint/css"
	"nestlint/utils/debug"
)

type treeWriter struct {
	*debug.TreeWriter
}

// Dump returns a readable tree of the stylesheet as the checker sees it:
// every rule with its full selector path and own declarations.
// It exists solely for manual inspection during debugging.
func Dump(sheet *css.Stylesheet) string {
	if sheet == nil {
		return "<nil Stylesheet>"
	}

	tw := treeWriter{debug.NewTreeWriter()}
	tw.Line(0, "Stylesheet %q: %d nodes", sheet.Source, sheet.Len())
	for _, id := range sheet.Roots {
		tw.node(sheet, id, 1)
	}
	if len(sheet.Warnings) > 0 {
		tw.Line(0, "Warnings: %d", len(sheet.Warnings))
		for _, w := range sheet.Warnings {
			tw.Line(1, "%s", w)
		}
	}
	return tw.String()
}

func (tw treeWriter) node(sheet *css.Stylesheet, id css.NodeID, depth int) {
	n := sheet.Node(id)
	switch n.Kind {
	case css.NodeDeclaration:
		important := ""
		if n.Decl.Important {
			important = " !important"
		}
		tw.Line(depth, "decl %s %s: %s%s", n.Loc, n.Decl.Property, n.Decl.Value, important)
		return
	case css.NodeAtRule:
		tw.Line(depth, "atrule %s @%s", n.Loc, n.AtRule.Name)
		tw.Value(depth+1, "params", n.AtRule.Params)
	case css.NodeRule:
		tw.Line(depth, "rule %s", n.Loc)
		tw.Value(depth+1, "selector", n.Rule.Selector)
		tw.Value(depth+1, "path", sheet.FullSelector(id))
		if IsExempt(n.Rule.Selector) {
			tw.Line(depth+1, "exempt")
		}
	}

	own := OwnDeclarations(sheet, id)
	items := make([]string, 0, own.Len())
	for p, did := range own.All() {
		items = append(items, fmt.Sprintf("%s@%s", p, sheet.Node(did).Loc))
	}
	tw.List(depth+1, "own", items)
	for _, c := range n.Children() {
		tw.node(sheet, c, depth+1)
	}
}
