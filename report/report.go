// Package report collects lint results per source and presents them in one
// of supported output formats.
package report

import (
	"bytes"
	"fmt"
	"io"

	"nestlint/common"
	"nestlint/lint"
)

// Finding is a single reported problem.
type Finding struct {
	Rule           string          `json:"rule"`
	URL            string          `json:"url,omitempty"`
	Severity       common.Severity `json:"severity"`
	Text           string          `json:"text"`
	Line           int             `json:"line"`
	Column         int             `json:"column"`
	Overridden     string          `json:"overridden"`
	Overriding     string          `json:"overriding"`
	ParentSelector string          `json:"parent_selector"`
	ChildSelector  string          `json:"child_selector"`
}

// Summary holds aggregate counts for a report.
type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// Report collects everything found in a single source.
type Report struct {
	Source        string
	Encoding      string
	Findings      []Finding
	ParseWarnings []string
	Summary       Summary
}

// New creates empty report for source.
func New(source string) *Report {
	return &Report{
		Source:        source,
		Findings:      []Finding{},
		ParseWarnings: []string{},
	}
}

// Add records diagnostic with given severity.
func (r *Report) Add(d lint.Diagnostic, sev common.Severity) {
	r.Findings = append(r.Findings, Finding{
		Rule:           d.Rule,
		URL:            lint.RuleURL,
		Severity:       sev,
		Text:           d.Message(),
		Line:           d.Loc.Line,
		Column:         d.Loc.Column,
		Overridden:     d.Overridden,
		Overriding:     d.Overriding,
		ParentSelector: d.ParentSelector,
		ChildSelector:  d.ChildSelector,
	})
	switch sev {
	case common.SeverityError:
		r.Summary.Errors++
	case common.SeverityWarning:
		r.Summary.Warnings++
	}
}

// Errored tells if report should fail the run: it has errors, or in strict
// mode any finding at all.
func (r *Report) Errored(strict bool) bool {
	if strict {
		return len(r.Findings) > 0
	}
	return r.Summary.Errors > 0
}

// Clean is true when there is nothing to show for the source.
func (r *Report) Clean() bool {
	return len(r.Findings) == 0 && len(r.ParseWarnings) == 0
}

// Options select and tune output format.
type Options struct {
	Format common.OutputFormat
	Strict bool
	Color  bool
}

// Write formats reports to w in requested format.
func Write(w io.Writer, reports []*Report, opts Options) error {
	switch opts.Format {
	case common.OutputFormatText:
		return WriteText(w, reports, opts.Color)
	case common.OutputFormatJson:
		return WriteJSON(w, reports, opts.Strict)
	case common.OutputFormatCheckstyle:
		return WriteCheckstyle(w, reports)
	default:
		return fmt.Errorf("unsupported output format %q", opts.Format)
	}
}

// Format returns single report formatted, used to store results separately.
func Format(r *Report, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, []*Report{r}, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
