package lint

import (
	"fmt"

	"nestlint/css"
)

const (
	// RuleName identifies the override check in reports and configuration.
	RuleName = "plugin/no-overriding-properties"
	// RuleURL points to the rule documentation.
	RuleURL = "https://github.com/fraitag/stylelint-plugin-no-override-properties"
)

// Diagnostic describes one overridden property. Node is the overriding
// declaration in the nested rule, Loc is its position.
type Diagnostic struct {
	Rule           string
	Overridden     string // property of the parent rule
	Overriding     string // property of the nested rule
	ParentSelector string // full selector path of the parent
	ChildSelector  string // parent path immediately followed by child selector
	Node           css.NodeID
	Loc            css.Loc
}

// Message returns human readable description of the diagnostic.
func (d Diagnostic) Message() string {
	return fmt.Sprintf(`Property "%s" from "%s" is overridden by "%s" in nested selector "%s"`,
		d.Overridden, d.ParentSelector, d.Overriding, d.ChildSelector)
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (%s)", d.Loc, d.Message(), d.Rule)
}
