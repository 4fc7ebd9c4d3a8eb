package css

import (
	"fmt"
	"io"
	"strings"
)

// NodeID addresses a node inside its Stylesheet.
type NodeID int

// NoNode is the parent of top-level nodes.
const NoNode NodeID = -1

// NodeKind tells which payload of a Node is set.
type NodeKind int

const (
	NodeRule        NodeKind = iota // style rule: selector + block
	NodeDeclaration                 // property: value
	NodeAtRule                      // @name params [block]
)

func (k NodeKind) String() string {
	switch k {
	case NodeRule:
		return "rule"
	case NodeDeclaration:
		return "decl"
	case NodeAtRule:
		return "atrule"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Loc is the position of the first token of a node in the source.
type Loc struct {
	Line   int // 1-based
	Column int // 1-based, in runes
	Offset int // byte offset
}

func (l Loc) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Rule is a style rule scope.
type Rule struct {
	Selector string // as authored, may reference parent with "&"
	Children []NodeID
}

// Declaration is a single property declaration.
type Declaration struct {
	Property  string // lower case except for custom properties
	Value     string
	Important bool
}

// AtRule is an at-rule, Children is nil for statements without block (@import).
type AtRule struct {
	Name     string // without "@"
	Params   string
	Children []NodeID
}

// Node is one element of the rule tree. Exactly one of Rule, Decl or AtRule
// is non-nil, the one matching Kind.
type Node struct {
	Kind   NodeKind
	Parent NodeID
	Loc    Loc

	Rule   *Rule
	Decl   *Declaration
	AtRule *AtRule
}

// Children returns child nodes of rules and at-rules, nil for declarations.
func (n *Node) Children() []NodeID {
	switch n.Kind {
	case NodeRule:
		return n.Rule.Children
	case NodeAtRule:
		return n.AtRule.Children
	case NodeDeclaration:
		return nil
	default:
		panic(fmt.Sprintf("unexpected node kind %v", n.Kind))
	}
}

// Stylesheet is a parsed stylesheet: an arena of nodes linked by index.
// After parsing it is never modified by analysis code.
type Stylesheet struct {
	Source   string   // what was parsed, for messages only
	Roots    []NodeID // top-level nodes in source order
	Warnings []string // problems found while parsing, parsing never fails

	nodes []Node
}

// NewStylesheet returns an empty stylesheet ready for Add* calls.
func NewStylesheet(source string) *Stylesheet {
	return &Stylesheet{
		Source:   source,
		Roots:    make([]NodeID, 0),
		Warnings: make([]string, 0),
	}
}

// Len returns number of nodes in the stylesheet.
func (s *Stylesheet) Len() int {
	return len(s.nodes)
}

// Node returns node by id. Nodes are never moved, ids stay valid.
func (s *Stylesheet) Node(id NodeID) *Node {
	return &s.nodes[id]
}

func (s *Stylesheet) add(parent NodeID, n Node) NodeID {
	id := NodeID(len(s.nodes))
	n.Parent = parent
	s.nodes = append(s.nodes, n)
	if parent == NoNode {
		s.Roots = append(s.Roots, id)
		return id
	}
	p := &s.nodes[parent]
	switch p.Kind {
	case NodeRule:
		p.Rule.Children = append(p.Rule.Children, id)
	case NodeAtRule:
		p.AtRule.Children = append(p.AtRule.Children, id)
	case NodeDeclaration:
		panic("declaration cannot have children")
	}
	return id
}

// AddRule appends a style rule to parent (NoNode for top level).
func (s *Stylesheet) AddRule(parent NodeID, selector string, loc Loc) NodeID {
	return s.add(parent, Node{Kind: NodeRule, Loc: loc, Rule: &Rule{Selector: selector}})
}

// AddDeclaration appends a declaration to parent.
func (s *Stylesheet) AddDeclaration(parent NodeID, property, value string, important bool, loc Loc) NodeID {
	return s.add(parent, Node{Kind: NodeDeclaration, Loc: loc, Decl: &Declaration{Property: property, Value: value, Important: important}})
}

// AddAtRule appends an at-rule to parent. Block at-rules get non-nil
// Children so they can hold nested nodes.
func (s *Stylesheet) AddAtRule(parent NodeID, name, params string, block bool, loc Loc) NodeID {
	ar := &AtRule{Name: name, Params: params}
	if block {
		ar.Children = make([]NodeID, 0)
	}
	return s.add(parent, Node{Kind: NodeAtRule, Loc: loc, AtRule: ar})
}

// Walk visits all nodes in pre-order (document order) starting from roots.
// Returning false from fn skips children of the node.
func (s *Stylesheet) Walk(fn func(id NodeID, n *Node) bool) {
	for _, id := range s.Roots {
		s.WalkFrom(id, fn)
	}
}

// WalkFrom is Walk restricted to the subtree rooted at id.
func (s *Stylesheet) WalkFrom(id NodeID, fn func(id NodeID, n *Node) bool) {
	n := s.Node(id)
	if !fn(id, n) {
		return
	}
	for _, c := range n.Children() {
		s.WalkFrom(c, fn)
	}
}

// Descendants visits every node below id in pre-order, id itself excluded.
func (s *Stylesheet) Descendants(id NodeID, fn func(id NodeID, n *Node)) {
	for _, c := range s.Node(id).Children() {
		s.WalkFrom(c, func(id NodeID, n *Node) bool {
			fn(id, n)
			return true
		})
	}
}

// FullSelector returns selectors of the rule and its rule ancestors, root
// first, separated by a space. Walking up stops at the first ancestor which is
// not a rule (an at-rule).
func (s *Stylesheet) FullSelector(id NodeID) string {
	var parts []string
	for cur := id; cur != NoNode; cur = s.nodes[cur].Parent {
		n := &s.nodes[cur]
		if n.Kind != NodeRule {
			break
		}
		parts = append(parts, n.Rule.Selector)
	}
	// collected leaf first
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " ")
}

// WriteTo writes the stylesheet to w keeping nesting and source order,
// implementing io.WriterTo.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, id := range s.Roots {
		n, err := s.writeNode(w, id, 0)
		total += int64(n)
		if err != nil {
			return total, err
		}
		// Blank line between top-level items (except after last)
		if i < len(s.Roots)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

func (s *Stylesheet) writeNode(w io.Writer, id NodeID, depth int) (int, error) {
	indent := strings.Repeat("  ", depth)
	node := s.Node(id)

	switch node.Kind {
	case NodeDeclaration:
		important := ""
		if node.Decl.Important {
			important = " !important"
		}
		return fmt.Fprintf(w, "%s%s: %s%s;\n", indent, node.Decl.Property, node.Decl.Value, important)
	case NodeAtRule:
		head := "@" + node.AtRule.Name
		if node.AtRule.Params != "" {
			head += " " + node.AtRule.Params
		}
		if node.AtRule.Children == nil {
			return fmt.Fprintf(w, "%s%s;\n", indent, head)
		}
		return s.writeBlock(w, indent+head, node.AtRule.Children, depth)
	case NodeRule:
		return s.writeBlock(w, indent+node.Rule.Selector, node.Rule.Children, depth)
	default:
		panic(fmt.Sprintf("unexpected node kind %v", node.Kind))
	}
}

func (s *Stylesheet) writeBlock(w io.Writer, head string, children []NodeID, depth int) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s {\n", head)
	total += n
	if err != nil {
		return total, err
	}
	for _, c := range children {
		n, err = s.writeNode(w, c, depth+1)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = fmt.Fprintf(w, "%s}\n", strings.Repeat("  ", depth))
	total += n
	return total, err
}
