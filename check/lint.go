package check

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"nestlint/common"
	"nestlint/css"
	"nestlint/lint"
	"nestlint/report"
)

// linter checks sources concurrently.
type linter struct {
	checker  *lint.Checker
	severity common.Severity
	jobs     int
	log      *zap.Logger
}

func newLinter(opts lint.Options, severity common.Severity, jobs int, log *zap.Logger) *linter {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return &linter{
		checker:  lint.NewChecker(opts, log),
		severity: severity,
		jobs:     jobs,
		log:      log,
	}
}

// run returns reports in source order. Sources which could not be read have
// nil reports, their errors are combined into returned error.
func (l *linter) run(ctx context.Context, srcs []source) ([]*report.Report, error) {
	reports := make([]*report.Report, len(srcs))
	errs := make([]error, len(srcs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.jobs)
	for i, src := range srcs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i], errs[i] = l.lint(src)
			if errs[i] != nil {
				l.log.Error("Unable to check source", zap.String("source", src.name), zap.Error(errs[i]))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, multierr.Combine(errs...)
}

func (l *linter) lint(src source) (*report.Report, error) {
	data, err := src.load()
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", src.name, err)
	}

	r := report.New(src.name)

	text, enc, err := css.Decode(data)
	if err != nil {
		// still worth a try as is
		l.log.Warn("Unable to decode stylesheet", zap.String("source", src.name), zap.Error(err))
		r.ParseWarnings = append(r.ParseWarnings, err.Error())
	}
	r.Encoding = enc

	sheet := css.NewParser(l.log).Parse(text, src.name)
	r.ParseWarnings = append(r.ParseWarnings, sheet.Warnings...)

	l.checker.Check(sheet, func(d lint.Diagnostic) {
		r.Add(d, l.severity)
	})
	l.log.Debug("Source checked",
		zap.String("source", src.name),
		zap.String("encoding", enc),
		zap.Int("nodes", sheet.Len()),
		zap.Int("findings", len(r.Findings)))
	return r, nil
}
