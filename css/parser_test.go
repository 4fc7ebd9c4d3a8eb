package css_test

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"nestlint/css"
)

// rules returns ids of all rule nodes in document order.
func rules(sheet *css.Stylesheet) []css.NodeID {
	var ids []css.NodeID
	sheet.Walk(func(id css.NodeID, n *css.Node) bool {
		if n.Kind == css.NodeRule {
			ids = append(ids, id)
		}
		return true
	})
	return ids
}

func TestParser_NestedRules(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))

	input := []byte(`
.parent {
  color: red;
  &-child {
    color: blue;
  }
}
`)
	sheet := p.Parse(input, "nested.scss")

	if sheet.Source != "nested.scss" {
		t.Errorf("Source = %q", sheet.Source)
	}
	if len(sheet.Roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(sheet.Roots))
	}
	if len(sheet.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", sheet.Warnings)
	}

	root := sheet.Node(sheet.Roots[0])
	if root.Kind != css.NodeRule || root.Rule.Selector != ".parent" {
		t.Fatalf("unexpected root %+v", root)
	}
	if root.Parent != css.NoNode {
		t.Errorf("root parent = %d", root.Parent)
	}
	if len(root.Rule.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Rule.Children))
	}

	decl := sheet.Node(root.Rule.Children[0])
	if decl.Kind != css.NodeDeclaration || decl.Decl.Property != "color" || decl.Decl.Value != "red" {
		t.Errorf("unexpected declaration %+v", decl.Decl)
	}
	if decl.Loc.Line != 3 || decl.Loc.Column != 3 {
		t.Errorf("declaration at %v, want 3:3", decl.Loc)
	}

	child := sheet.Node(root.Rule.Children[1])
	if child.Kind != css.NodeRule || child.Rule.Selector != "&-child" {
		t.Fatalf("unexpected child %+v", child)
	}
	if child.Parent != sheet.Roots[0] {
		t.Errorf("child parent = %d", child.Parent)
	}
	if child.Loc.Line != 4 || child.Loc.Column != 3 {
		t.Errorf("child at %v, want 4:3", child.Loc)
	}
	inner := sheet.Node(child.Rule.Children[0])
	if inner.Decl.Value != "blue" || inner.Loc.Line != 5 || inner.Loc.Column != 5 {
		t.Errorf("unexpected inner declaration %+v at %v", inner.Decl, inner.Loc)
	}
}

func TestParser_Selectors(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	input := []byte(`.a {
  &Desktop { margin: 0 }
  &--large { padding: 1px }
  > .child { margin: 2px }
  &:hover { color: red }
  &::before { content: "x" }
  &[disabled] { color: gray }
  .x,
  .y { color: black }
}`)
	sheet := p.Parse(input)

	want := []string{".a", "&Desktop", "&--large", "> .child", "&:hover", "&::before", "&[disabled]", ".x,\n  .y"}
	ids := rules(sheet)
	if len(ids) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(ids))
	}
	for i, id := range ids {
		if got := sheet.Node(id).Rule.Selector; got != want[i] {
			t.Errorf("rule %d: selector %q, want %q", i, got, want[i])
		}
	}
}

func TestParser_Declarations(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	input := []byte(`a {
  COLOR: Red;
  --Main-Color: #fff;
  margin: 0 auto !important;
  background: url(data:image/png;base64,AAAA) no-repeat;
  font-family: "Foo; Bar", serif;
  width: calc(100% - (2 * 10px))
}`)
	sheet := p.Parse(input)

	root := sheet.Node(sheet.Roots[0])
	type decl struct {
		prop, value string
		important   bool
	}
	want := []decl{
		{"color", "Red", false},
		{"--Main-Color", "#fff", false},
		{"margin", "0 auto", true},
		{"background", "url(data:image/png;base64,AAAA) no-repeat", false},
		{"font-family", `"Foo; Bar", serif`, false},
		{"width", "calc(100% - (2 * 10px))", false},
	}
	if len(root.Rule.Children) != len(want) {
		t.Fatalf("expected %d declarations, got %d (warnings %v)", len(want), len(root.Rule.Children), sheet.Warnings)
	}
	for i, id := range root.Rule.Children {
		d := sheet.Node(id).Decl
		if d.Property != want[i].prop || d.Value != want[i].value || d.Important != want[i].important {
			t.Errorf("declaration %d = %+v, want %+v", i, *d, want[i])
		}
	}
}

func TestParser_Comments(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	input := []byte(`/* header */
.a {
  // line comment: not a declaration;
  color: red; /* trailing */
  &-b { // opens block
    color: blue;
  }
}`)
	sheet := p.Parse(input)

	if len(sheet.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", sheet.Warnings)
	}
	root := sheet.Node(sheet.Roots[0])
	if len(root.Rule.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Rule.Children))
	}
	if d := sheet.Node(root.Rule.Children[0]); d.Kind != css.NodeDeclaration || d.Decl.Property != "color" {
		t.Errorf("unexpected first child %+v", d)
	}
	if r := sheet.Node(root.Rule.Children[1]); r.Kind != css.NodeRule || r.Rule.Selector != "&-b" {
		t.Errorf("unexpected second child %+v", r)
	}
}

func TestParser_AtRules(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	input := []byte(`@import url("base.css");
@media screen and (min-width: 600px) {
  .a {
    color: red;
    @media print { color: black; }
  }
}
.b { @include mixin(1px); color: red; }`)
	sheet := p.Parse(input)

	if len(sheet.Roots) != 3 {
		t.Fatalf("expected 3 roots, got %d", len(sheet.Roots))
	}

	imp := sheet.Node(sheet.Roots[0])
	if imp.Kind != css.NodeAtRule || imp.AtRule.Name != "import" || imp.AtRule.Children != nil {
		t.Errorf("unexpected import %+v", imp.AtRule)
	}
	if imp.AtRule.Params != `url("base.css")` {
		t.Errorf("import params = %q", imp.AtRule.Params)
	}

	media := sheet.Node(sheet.Roots[1])
	if media.Kind != css.NodeAtRule || media.AtRule.Name != "media" {
		t.Fatalf("unexpected media %+v", media)
	}
	if media.AtRule.Params != "screen and (min-width: 600px)" {
		t.Errorf("media params = %q", media.AtRule.Params)
	}
	a := sheet.Node(media.AtRule.Children[0])
	if a.Rule.Selector != ".a" || len(a.Rule.Children) != 2 {
		t.Fatalf("unexpected rule in media %+v", a.Rule)
	}
	nested := sheet.Node(a.Rule.Children[1])
	if nested.Kind != css.NodeAtRule || len(nested.AtRule.Children) != 1 {
		t.Errorf("unexpected nested at-rule %+v", nested)
	}

	b := sheet.Node(sheet.Roots[2])
	if len(b.Rule.Children) != 2 {
		t.Fatalf("expected 2 children in .b, got %d", len(b.Rule.Children))
	}
	if inc := sheet.Node(b.Rule.Children[0]); inc.Kind != css.NodeAtRule || inc.AtRule.Name != "include" || inc.AtRule.Params != "mixin(1px)" {
		t.Errorf("unexpected include %+v", inc.AtRule)
	}
}

func TestParser_Recovery(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	tests := []struct {
		name     string
		input    string
		warning  string
		rules    int
		children int // children of the first rule
	}{
		{"missing colon", `a { color red; margin: 0; }`, "missing colon", 1, 1},
		{"malformed name", `a { *zoom: 1; margin: 0; }`, "malformed declaration", 1, 1},
		{"stray brace", `} a { margin: 0; }`, "unexpected closing brace", 1, 1},
		{"unclosed", `a { margin: 0; b { color: red; }`, "unclosed block", 2, 2},
		{"top level declaration", `color: red; a { margin: 0 }`, "declaration outside of rule", 1, 1},
		{"no selector", `{ margin: 0 }`, "block without selector", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := p.Parse([]byte(tt.input))
			found := false
			for _, w := range sheet.Warnings {
				if strings.Contains(w, tt.warning) && strings.Contains(w, "line 1") {
					found = true
				}
			}
			if !found {
				t.Errorf("expected warning containing %q, got %v", tt.warning, sheet.Warnings)
			}
			ids := rules(sheet)
			if len(ids) != tt.rules {
				t.Fatalf("expected %d rules, got %d", tt.rules, len(ids))
			}
			if got := len(sheet.Node(ids[0]).Children()); got != tt.children {
				t.Errorf("expected %d children, got %d", tt.children, got)
			}
		})
	}
}

func TestParser_Empty(t *testing.T) {
	p := css.NewParser(nil)
	for _, input := range []string{"", "   \n", "/* only comment */"} {
		sheet := p.Parse([]byte(input))
		if sheet.Len() != 0 || len(sheet.Roots) != 0 || len(sheet.Warnings) != 0 {
			t.Errorf("input %q: expected empty sheet, got %d nodes, warnings %v", input, sheet.Len(), sheet.Warnings)
		}
	}
}

func TestParser_DoesNotModifyInput(t *testing.T) {
	buf := make([]byte, 0, 64)
	buf = append(buf, "a { color: red }"...)
	spare := buf[:cap(buf)]
	spare[len(buf)] = 'X'

	css.NewParser(nil).Parse(buf)

	if spare[len(buf)] != 'X' {
		t.Error("byte past input was not restored")
	}
}
