package lint

import (
	"reflect"
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"nestlint/css"
)

var enabled = Options{Enabled: true}

func messages(ds []Diagnostic) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Message())
	}
	return out
}

// Cases mirror real stylesheet patterns: BEM modifiers, responsive variants,
// state selectors and combinators.
func TestCheck_Patterns(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		count    int
		contains []string // substrings of the first message
	}{
		{
			name: "child overrides parent",
			src: `.parent {
  color: red;
  &-child {
    color: blue;
  }
}`,
			count:    1,
			contains: []string{"color"},
		},
		{
			name: "margin shorthand",
			src: `.readMoreButton {
  border: 1px solid #cecece;
  margin-right: 20px;

  &Desktop {
    margin: 0;
  }
}`,
			count:    1,
			contains: []string{`"margin-right"`, `"margin"`},
		},
		{
			name: "multiple exact",
			src: `.box {
  padding: 10px;
  margin: 20px;
  &-inner {
    padding: 5px;
    margin: 10px;
  }
}`,
			count: 2,
		},
		{
			name: "margin longhands",
			src: `.element {
  margin-top: 10px;
  margin-right: 20px;
  &-child {
    margin: 0;
  }
}`,
			count:    2,
			contains: []string{"margin"},
		},
		{
			name:     "padding shorthand",
			src:      `.box { padding-left: 15px; &-content { padding: 10px; } }`,
			count:    1,
			contains: []string{"padding-left"},
		},
		{
			name: "border-top shorthand",
			src: `.card {
  border-top-color: red;
  border-top-width: 2px;
  &--highlighted {
    border-top: 1px solid blue;
  }
}`,
			count: 2,
		},
		{
			name:     "background shorthand",
			src:      `.header { background-color: white; &--dark { background: black; } }`,
			count:    1,
			contains: []string{"background-color"},
		},
		{
			name:  "hover",
			src:   `.button { color: blue; &:hover { color: red; } }`,
			count: 0,
		},
		{
			name:  "focus",
			src:   `.input { border: 1px solid gray; &:focus { border: 2px solid blue; } }`,
			count: 0,
		},
		{
			name:  "before",
			src:   `.icon { color: black; &::before { color: gray; } }`,
			count: 0,
		},
		{
			name:  "attribute",
			src:   `.button { background: blue; &[disabled] { background: gray; } }`,
			count: 0,
		},
		{
			name:  "no overlap",
			src:   `.element { color: red; padding: 10px; &-child { margin: 20px; font-size: 14px; } }`,
			count: 0,
		},
		{
			name:  "different longhands",
			src:   `.box { margin-top: 10px; &-inner { margin-bottom: 20px; } }`,
			count: 0,
		},
		{
			name:  "parent without properties",
			src:   `.parent { &-child { color: blue; margin: 10px; } }`,
			count: 0,
		},
		{
			name:     "partial overlap",
			src:      `.container { margin: 20px; &-wrapper { padding: 10px; margin: 10px; } }`,
			count:    1,
			contains: []string{"margin"},
		},
		{
			name: "BEM modifiers",
			src: `.button {
  padding: 10px 20px;
  background: blue;
  &--large {
    padding: 15px 30px;
  }
  &--small {
    font-size: 12px;
  }
}`,
			count:    1,
			contains: []string{"padding"},
		},
		{
			name: "responsive",
			src: `.readMoreButton {
  margin-right: 20px;
  padding: 6px 18px;
  &Mobile {
    margin-bottom: 20px;
  }
  &Desktop {
    margin: 0;
    padding: 8px 16px;
  }
}`,
			count: 2,
		},
		{
			name:  "empty rulesets",
			src:   `.empty { &-child { } }`,
			count: 0,
		},
		{
			name:  "combinator",
			src:   `.parent { margin: 10px; > .child { margin: 20px; } }`,
			count: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := parse(t, tt.src)
			got := Collect(sheet, enabled)
			if len(got) != tt.count {
				t.Fatalf("expected %d diagnostics, got %d: %v", tt.count, len(got), messages(got))
			}
			for _, s := range tt.contains {
				if !strings.Contains(got[0].Message(), s) {
					t.Errorf("message %q does not contain %q", got[0].Message(), s)
				}
			}
		})
	}
}

func TestCheck_Message(t *testing.T) {
	sheet := parse(t, `
.readMoreButton {
  border: 1px solid #cecece;
  margin-right: 20px;

  &Desktop {
    margin: 0;
  }
}`)
	got := Collect(sheet, enabled)
	if len(got) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(got))
	}
	d := got[0]
	want := `Property "margin-right" from ".readMoreButton" is overridden by "margin" in nested selector ".readMoreButton&Desktop"`
	if d.Message() != want {
		t.Errorf("Message() =\n%s\nwant\n%s", d.Message(), want)
	}
	if d.Rule != RuleName {
		t.Errorf("Rule = %q", d.Rule)
	}
	if d.Loc.Line != 7 || d.Loc.Column != 5 {
		t.Errorf("Loc = %v, want 7:5", d.Loc)
	}
	if n := sheet.Node(d.Node); n.Decl == nil || n.Decl.Property != "margin" {
		t.Errorf("Node does not point to overriding declaration: %+v", n)
	}
	if !strings.HasPrefix(d.String(), "7:5: Property") || !strings.HasSuffix(d.String(), "("+RuleName+")") {
		t.Errorf("String() = %q", d.String())
	}
}

func TestCheck_Nesting(t *testing.T) {
	sheet := parse(t, `
.a {
  color: red;
  &:hover {
    color: blue;
    .x { color: green; }
  }
  &-b {
    color: black;
    &-c { color: white; }
  }
}`)
	got := Collect(sheet, enabled)

	want := []string{
		`Property "color" from ".a" is overridden by "color" in nested selector ".a&-b"`,
		`Property "color" from ".a &:hover" is overridden by "color" in nested selector ".a &:hover.x"`,
		`Property "color" from ".a &-b" is overridden by "color" in nested selector ".a &-b&-c"`,
	}
	if !slices.Equal(messages(got), want) {
		t.Errorf("got:\n%s\nwant:\n%s", strings.Join(messages(got), "\n"), strings.Join(want, "\n"))
	}
}

func TestCheck_AtRules(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "rule inside media",
			src:  `@media (min-width: 600px) { .a { color: red; &-b { color: blue; } } }`,
			want: []string{`Property "color" from ".a" is overridden by "color" in nested selector ".a&-b"`},
		},
		{
			name: "declarations in nested at-rule",
			src:  `.a { color: red; @media print { color: blue; } }`,
		},
		{
			name: "rule in nested at-rule",
			src:  `.a { color: red; @media print { .b { color: blue; } } }`,
		},
		{
			name: "path stops at at-rule",
			src:  `.a { color: red; @supports (display: grid) { &-x { color: blue; .y { color: green; } } } }`,
			want: []string{`Property "color" from "&-x" is overridden by "color" in nested selector "&-x.y"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := messages(Collect(parse(t, tt.src), enabled))
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheck_LastWins(t *testing.T) {
	sheet := parse(t, `.a { color: red; margin: 0; color: blue; &-b { margin: 1px; color: green; } }`)
	got := Collect(sheet, enabled)
	want := []string{
		`Property "margin" from ".a" is overridden by "margin" in nested selector ".a&-b"`,
		`Property "color" from ".a" is overridden by "color" in nested selector ".a&-b"`,
	}
	if !slices.Equal(messages(got), want) {
		t.Errorf("got %v, want %v", messages(got), want)
	}
}

func TestCheck_Transitive(t *testing.T) {
	src := `.a { border-top-width: 1px; &-b { border: 0; } }`

	if got := Collect(parse(t, src), enabled); len(got) != 0 {
		t.Errorf("expected no diagnostics by default, got %v", messages(got))
	}
	got := Collect(parse(t, src), Options{Enabled: true, Transitive: true})
	if len(got) != 1 || got[0].Overridden != "border-top-width" || got[0].Overriding != "border" {
		t.Errorf("unexpected diagnostics %v", messages(got))
	}
}

func TestCheck_Disabled(t *testing.T) {
	sheet := parse(t, `.element { color: red; &-child { color: blue; } }`)
	c := NewChecker(Options{Enabled: false, Transitive: true}, zaptest.NewLogger(t))

	called := false
	c.Check(sheet, func(Diagnostic) { called = true })
	c.CheckRoot(sheet, sheet.Roots[0], func(Diagnostic) { called = true })
	if called {
		t.Error("disabled checker must not report")
	}
}

func TestCheck_Idempotent(t *testing.T) {
	sheet := parse(t, `
.a {
  margin-top: 1px;
  margin-left: 2px;
  padding: 0;
  &-b { margin: 0; padding: 1px; }
  &-c { flex: 1; }
}`)
	c := NewChecker(enabled, zaptest.NewLogger(t))

	var first, second []Diagnostic
	c.Check(sheet, func(d Diagnostic) { first = append(first, d) })
	c.Check(sheet, func(d Diagnostic) { second = append(second, d) })

	if len(first) != 3 {
		t.Fatalf("expected 3 diagnostics, got %v", messages(first))
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated runs produced different diagnostics")
	}
}

func TestCheckRoot(t *testing.T) {
	sheet := parse(t, `
.a { color: red; &-b { color: blue; } }
.c { margin: 0; &-d { margin: 1px; } }`)
	c := NewChecker(enabled, zaptest.NewLogger(t))

	var got []Diagnostic
	c.CheckRoot(sheet, sheet.Roots[1], func(d Diagnostic) { got = append(got, d) })
	if len(got) != 1 || got[0].ParentSelector != ".c" || got[0].ChildSelector != ".c&-d" {
		t.Errorf("unexpected diagnostics %v", messages(got))
	}
}

func TestCheck_EmptyProperty(t *testing.T) {
	sheet := css.NewStylesheet("built")
	a := sheet.AddRule(css.NoNode, ".a", css.Loc{Line: 1, Column: 1})
	sheet.AddDeclaration(a, "", "red", false, css.Loc{Line: 1, Column: 6})
	sheet.AddDeclaration(a, "padding-top", "0", false, css.Loc{Line: 1, Column: 18})
	b := sheet.AddRule(a, "&-b", css.Loc{Line: 2, Column: 3})
	sheet.AddDeclaration(b, "", "blue", false, css.Loc{Line: 2, Column: 9})

	if got := Collect(sheet, enabled); len(got) != 0 {
		t.Errorf("declarations without property must match nothing, got %v", messages(got))
	}
	if m := OwnDeclarations(sheet, a); m.Has("") || m.Len() != 1 {
		t.Errorf("unexpected scope %v", m.Keys())
	}
}

func TestCheck_MultilineSelector(t *testing.T) {
	sheet := parse(t, ".x,\n.y {\n  color: red;\n  &-b { color: blue; }\n}")
	got := Collect(sheet, enabled)
	want := []string{"Property \"color\" from \".x,\n.y\" is overridden by \"color\" in nested selector \".x,\n.y&-b\""}
	if !slices.Equal(messages(got), want) {
		t.Errorf("got %q, want %q", messages(got), want)
	}
}
