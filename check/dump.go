package check

import (
	"context"
	"errors"
	"fmt"
	"io"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"nestlint/css"
	"nestlint/lint"
	"nestlint/state"
)

// Dump prints stylesheets the way linter sees them.
func Dump(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("dump")

	srcs := cmd.Args().Slice()
	if len(srcs) == 0 {
		return errors.New("no input source has been specified")
	}

	env.CodePage = codePage(cmd.String("force-zip-cp"), log)
	f := &finder{
		extensions: env.Cfg.Sources.Extensions,
		codePage:   env.CodePage,
		log:        log,
	}
	return dump(ctx, f, srcs, cmd.Bool("css"), env.Stdout, log)
}

func dump(ctx context.Context, f *finder, args []string, asCSS bool, out io.Writer, log *zap.Logger) error {
	srcs, err := f.discover(ctx, args)
	if err != nil {
		return err
	}

	parser := css.NewParser(log)
	for _, src := range srcs {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := src.load()
		if err != nil {
			return fmt.Errorf("unable to read %s: %w", src.name, err)
		}
		text, _, err := css.Decode(data)
		if err != nil {
			log.Warn("Unable to decode stylesheet", zap.String("source", src.name), zap.Error(err))
		}
		sheet := parser.Parse(text, src.name)

		if asCSS {
			_, err = fmt.Fprintf(out, "/* %s */\n%s", src.name, sheet)
		} else {
			_, err = io.WriteString(out, lint.Dump(sheet))
		}
		if err != nil {
			return fmt.Errorf("unable to write dump: %w", err)
		}
	}
	return nil
}
