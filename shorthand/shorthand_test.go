package shorthand

import (
	"slices"
	"testing"
)

func TestExpandsTo(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"margin", []string{"margin-top", "margin-right", "margin-bottom", "margin-left"}},
		{"flex-flow", []string{"flex-direction", "flex-wrap"}},
		{"border-top", []string{"border-top-width", "border-top-style", "border-top-color"}},
		{"color", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandsTo(tt.name)
			if !slices.Equal(got, tt.want) {
				t.Errorf("ExpandsTo(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestExpandsTo_ReturnsCopy(t *testing.T) {
	got := ExpandsTo("flex")
	got[0] = "mutated"
	if ExpandsTo("flex")[0] != "flex-grow" {
		t.Fatal("table was modified through returned slice")
	}
}

func TestOverrides(t *testing.T) {
	tests := []struct {
		candidate, target string
		want              bool
	}{
		{"color", "color", true},
		{"margin", "margin-right", true},
		{"padding", "padding-left", true},
		{"background", "background-color", true},
		{"font", "line-height", true},
		{"border", "border-top", true},
		{"border-top", "border-top-width", true},
		// only one level deep
		{"border", "border-top-width", false},
		// longhand never overrides its shorthand
		{"margin-right", "margin", false},
		{"margin", "padding-top", false},
		{"", "margin", false},
		{"", "", true},
	}
	for _, tt := range tests {
		if got := Overrides(tt.candidate, tt.target); got != tt.want {
			t.Errorf("Overrides(%q, %q) = %v, want %v", tt.candidate, tt.target, got, tt.want)
		}
	}
}

func TestOverridesTransitive(t *testing.T) {
	if !OverridesTransitive("border", "border-top-width") {
		t.Error("border should transitively override border-top-width")
	}
	if !OverridesTransitive("border", "border-left-color") {
		t.Error("border should transitively override border-left-color")
	}
	if OverridesTransitive("border", "border-top-left-radius") {
		t.Error("border does not control border radius")
	}
	if !OverridesTransitive("margin", "margin") {
		t.Error("identical names always override")
	}
}

func TestLonghands(t *testing.T) {
	got := Longhands("border")
	// 7 direct + 12 side/attribute longhands, no duplicates
	if len(got) != 19 {
		t.Fatalf("Longhands(border) has %d entries: %v", len(got), got)
	}
	seen := make(map[string]bool)
	for _, l := range got {
		if seen[l] {
			t.Errorf("duplicate longhand %q", l)
		}
		seen[l] = true
	}
	if got[0] != "border-width" || got[1] != "border-top-width" {
		t.Errorf("unexpected depth first order: %v", got[:2])
	}
	if !slices.Equal(Longhands("margin"), ExpandsTo("margin")) {
		t.Error("single level shorthand closure must equal its expansion")
	}
	if Longhands("color") != nil {
		t.Error("expected nil for non shorthand")
	}
}

func TestEveryLonghandIsOverridden(t *testing.T) {
	for _, s := range Names() {
		if !IsShorthand(s) {
			t.Fatalf("%q listed but not a shorthand", s)
		}
		for _, l := range ExpandsTo(s) {
			if !Overrides(s, l) {
				t.Errorf("Overrides(%q, %q) = false", s, l)
			}
		}
	}
	if len(Names()) != 15 {
		t.Errorf("expected 15 shorthands, got %d", len(Names()))
	}
}
