package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"nestlint/common"
)

type palette struct {
	source, pos, rule, err, warn *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		source: color.New(color.Underline),
		pos:    color.New(color.Faint),
		rule:   color.New(color.Faint),
		err:    color.New(color.FgRed),
		warn:   color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.source, p.pos, p.rule, p.err, p.warn} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s common.Severity) *color.Color {
	if s == common.SeverityError {
		return p.err
	}
	return p.warn
}

// WriteText writes reports grouped by source followed by a summary line.
// Clean sources are not mentioned at all.
func WriteText(w io.Writer, reports []*Report, colored bool) error {
	p := newPalette(colored)

	var (
		b     strings.Builder
		total Summary
	)
	for _, r := range reports {
		total.Errors += r.Summary.Errors
		total.Warnings += r.Summary.Warnings
		if r.Clean() {
			continue
		}

		b.WriteByte('\n')
		b.WriteString(p.source.Sprint(r.Source))
		b.WriteByte('\n')

		width := 0
		for _, f := range r.Findings {
			width = max(width, len(position(f)))
		}
		for _, f := range r.Findings {
			pos := position(f)
			fmt.Fprintf(&b, "  %s%s  %s  %s  %s\n",
				p.pos.Sprint(pos), strings.Repeat(" ", width-len(pos)),
				p.severity(f.Severity).Sprint(f.Severity.Symbol()),
				f.Text,
				p.rule.Sprint(f.Rule))
		}
		for _, msg := range r.ParseWarnings {
			fmt.Fprintf(&b, "  %s  %s\n", p.warn.Sprint("!"), msg)
		}
	}

	if problems := total.Errors + total.Warnings; problems > 0 {
		sym := p.warn.Sprint(common.SeverityWarning.Symbol())
		if total.Errors > 0 {
			sym = p.err.Sprint(common.SeverityError.Symbol())
		}
		fmt.Fprintf(&b, "\n%s %s (%s, %s)\n", sym,
			plural(problems, "problem"), plural(total.Errors, "error"), plural(total.Warnings, "warning"))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func position(f Finding) string {
	return fmt.Sprintf("%d:%d", f.Line, f.Column)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
