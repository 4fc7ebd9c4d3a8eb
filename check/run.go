// Package check drives linting of stylesheets named on command line.
package check

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"nestlint/common"
	"nestlint/config"
	"nestlint/lint"
	"nestlint/report"
	"nestlint/state"
)

// ErrProblems is returned when linting found problems which should fail the run.
var ErrProblems = errors.New("problems found")

// Settings are effective parameters of a single check run: configuration
// with command line overrides applied.
type Settings struct {
	Extensions []string
	CodePage   encoding.Encoding
	Jobs       int
	Lint       lint.Options
	Severity   common.Severity
	Output     report.Options
}

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("check")

	srcs := cmd.Args().Slice()
	if len(srcs) == 0 {
		return errors.New("no input source has been specified")
	}

	s, err := settings(env, cmd, log)
	if err != nil {
		return err
	}

	out := env.Stdout
	if fname := cmd.String("output"); len(fname) > 0 {
		f, err := os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer f.Close()
		out = f
	}
	if f, ok := out.(*os.File); !ok || !config.EnableColorOutput(f) {
		s.Output.Color = false
	}

	log.Info("Processing starting", zap.Strings("sources", srcs), zap.Stringer("format", s.Output.Format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, srcs, s, out, env.Rpt, log)
}

// settings superimposes command line flags on configuration.
func settings(env *state.LocalEnv, cmd *cli.Command, log *zap.Logger) (Settings, error) {
	cfg := env.Cfg
	s := Settings{
		Extensions: cfg.Sources.Extensions,
		Jobs:       cfg.Sources.Jobs,
		Lint:       env.LintOptions(),
		Severity:   cfg.Rules.NoOverridingProperties.Severity,
		Output: report.Options{
			Format: cfg.Output.Format,
			Strict: cfg.Output.Strict,
			Color:  cfg.Output.Color,
		},
	}

	if cmd.IsSet("format") {
		format, err := common.ParseOutputFormat(cmd.String("format"))
		if err != nil {
			return s, fmt.Errorf("unknown output format requested: %w", err)
		}
		s.Output.Format = format
	}
	if cmd.IsSet("strict") {
		s.Output.Strict = cmd.Bool("strict")
	}
	if cmd.IsSet("jobs") {
		if s.Jobs = cmd.Int("jobs"); s.Jobs < 0 {
			return s, fmt.Errorf("number of jobs cannot be negative: %d", s.Jobs)
		}
	}
	if cmd.IsSet("transitive") {
		s.Lint.Transitive = cmd.Bool("transitive")
	}
	if exts := cmd.StringSlice("ext"); len(exts) > 0 {
		s.Extensions = make([]string, 0, len(exts))
		for _, e := range exts {
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			s.Extensions = append(s.Extensions, e)
		}
	}

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	env.CodePage = codePage(cmd.String("force-zip-cp"), log)
	s.CodePage = env.CodePage
	return s, nil
}

// process checks all sources and writes formatted results to out.
func process(ctx context.Context, args []string, s Settings, out io.Writer, rpt *config.Report, log *zap.Logger) error {
	if !s.Lint.Enabled {
		log.Warn("Rule is disabled by configuration, only parsing problems will be reported", zap.String("rule", lint.RuleName))
	}

	f := &finder{extensions: s.Extensions, codePage: s.CodePage, log: log}
	srcs, err := f.discover(ctx, args)
	if err != nil {
		return err
	}
	log.Debug("Sources discovered", zap.Int("count", len(srcs)))
	if rpt != nil {
		storeSources(rpt, srcs, log)
	}

	reports, lintErr := newLinter(s.Lint, s.Severity, s.Jobs, log).run(ctx, srcs)
	if reports == nil && lintErr != nil {
		return lintErr
	}

	// unreadable sources have no report
	done := make([]*report.Report, 0, len(reports))
	for _, r := range reports {
		if r != nil {
			done = append(done, r)
		}
	}

	if err := report.Write(out, done, s.Output); err != nil {
		return fmt.Errorf("unable to write results: %w", err)
	}
	if rpt != nil {
		storeResults(rpt, done, s.Output, log)
	}

	if lintErr != nil {
		return lintErr
	}
	for _, r := range done {
		if r.Errored(s.Output.Strict) {
			return ErrProblems
		}
	}
	return nil
}

// storeSources puts copies of stylesheets and archives being checked into
// debug report, every file once.
func storeSources(rpt *config.Report, srcs []source, log *zap.Logger) {
	seen := make(map[string]bool, len(srcs))
	for _, src := range srcs {
		if src.file == "" || seen[src.file] {
			continue
		}
		seen[src.file] = true
		if err := rpt.StoreCopy("sources/"+filepath.Base(src.file), src.file); err != nil {
			log.Warn("Unable to copy source for debug report", zap.String("file", src.file), zap.Error(err))
		}
	}
}

// storeResults puts formatted result of every source into debug report.
func storeResults(rpt *config.Report, reports []*report.Report, opts report.Options, log *zap.Logger) {
	opts.Color = false
	for _, r := range reports {
		data, err := report.Format(r, opts)
		if err != nil {
			log.Warn("Unable to format result for debug report", zap.String("source", r.Source), zap.Error(err))
			continue
		}
		id, err := uuid.NewV7()
		if err != nil {
			id = uuid.New()
		}
		rpt.StoreData(fmt.Sprintf("results/%s-%s%s", slug.Make(r.Source), id, opts.Format.Ext()), data)
	}
}
