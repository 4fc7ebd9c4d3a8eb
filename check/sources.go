package check

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"nestlint/archive"
)

// source is a single stylesheet to be checked. File is the stylesheet or
// archive on disk it comes from.
type source struct {
	name string
	file string
	load func() ([]byte, error)
}

func fileSource(path string) source {
	return source{name: path, file: path, load: func() ([]byte, error) { return os.ReadFile(path) }}
}

// finder discovers stylesheets named by command line arguments.
type finder struct {
	extensions []string
	codePage   encoding.Encoding
	log        *zap.Logger
}

// discover returns sources for all arguments in argument order. Within a
// directory files are ordered naturally by their path.
func (f *finder) discover(ctx context.Context, args []string) ([]source, error) {
	var all []source
	for _, arg := range args {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		srcs, err := f.locate(ctx, filepath.Clean(arg))
		if err != nil {
			return nil, err
		}
		if len(srcs) == 0 {
			f.log.Warn("Nothing to check", zap.String("source", arg))
		}
		all = append(all, srcs...)
	}
	return all, nil
}

// locate finds the longest existing prefix of the path, what is left is
// treated as path inside zip archive.
func (f *finder) locate(ctx context.Context, src string) ([]source, error) {
	head := src
	for {
		fi, err := os.Stat(head)
		if err == nil {
			tail := strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			return f.sources(ctx, head, tail, fi)
		}
		parent := filepath.Dir(head)
		if parent == head {
			return nil, fmt.Errorf("input source was not found (%s)", src)
		}
		head = parent
	}
}

func (f *finder) sources(ctx context.Context, head, tail string, fi fs.FileInfo) ([]source, error) {
	if fi.IsDir() {
		if len(tail) != 0 {
			// directory cannot have tail - it would be simple file
			return nil, fmt.Errorf("input source was not found (%s) => (%s)", head, tail)
		}
		return f.fromDir(ctx, head)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("unexpected path mode for (%s)", head)
	}

	isZip, err := archive.IsArchive(head)
	if err != nil {
		// checking format - but cannot open target file
		return nil, fmt.Errorf("unable to check archive type: %w", err)
	}
	if isZip {
		srcs, err := f.fromArchive(ctx, head, filepath.ToSlash(tail))
		if err != nil {
			return nil, fmt.Errorf("unable to process archive: %w", err)
		}
		return srcs, nil
	}
	if len(tail) != 0 {
		return nil, fmt.Errorf("input source was not found (%s) => (%s)", head, tail)
	}
	// explicitly named files are checked whatever their extension is
	return []source{fileSource(head)}, nil
}

// fromDir walks directory tree collecting stylesheets and looking into zip
// archives. Symbolic links are not followed.
func (f *finder) fromDir(ctx context.Context, dir string) ([]source, error) {
	var (
		paths    []string
		archives = make(map[string]bool)
	)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			f.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if archive.HasExtension(path, f.extensions) {
			paths = append(paths, path)
			return nil
		}
		isZip, err := archive.IsArchive(path)
		if err != nil {
			f.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if isZip {
			paths = append(paths, path)
			archives[path] = true
			return nil
		}
		f.log.Debug("Skipping file, not a stylesheet or archive", zap.String("file", path))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Sort(natural.StringSlice(paths))

	var srcs []source
	for _, path := range paths {
		if !archives[path] {
			srcs = append(srcs, fileSource(path))
			continue
		}
		found, err := f.fromArchive(ctx, path, "")
		if err != nil {
			f.log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
			continue
		}
		srcs = append(srcs, found...)
	}
	return srcs, nil
}

// fromArchive reads stylesheets under "pathIn" inside archive. Archive is
// closed after discovery so content is loaded right away.
func (f *finder) fromArchive(ctx context.Context, path, pathIn string) ([]source, error) {
	type item struct {
		name string
		data []byte
	}
	var items []item

	opts := archive.Options{Prefix: pathIn, Extensions: f.extensions, CodePage: f.codePage}
	err := archive.Walk(path, opts, func(arc string, e archive.Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.File.NonUTF8 && f.codePage == nil {
			f.log.Debug("Archive entry name is not UTF-8, consider forcing code page",
				zap.String("archive", arc), zap.String("path", e.Name))
		}
		data, err := archive.ReadEntry(e)
		if err != nil {
			f.log.Error("Unable to read file in archive",
				zap.String("archive", arc), zap.String("file", e.Name), zap.Error(err))
			return nil
		}
		items = append(items, item{name: e.Name, data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return natural.Less(items[i].name, items[j].name)
	})

	srcs := make([]source, 0, len(items))
	for _, it := range items {
		srcs = append(srcs, source{
			name: path + "/" + it.name,
			file: path,
			load: func() ([]byte, error) { return it.data, nil },
		})
	}
	return srcs, nil
}

// codePage resolves IANA name of the forced encoding for archive file names.
func codePage(name string, log *zap.Logger) encoding.Encoding {
	if len(name) == 0 {
		return nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err == nil && enc == nil {
		err = errors.New("encoding is not supported")
	}
	if err != nil {
		log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", name), zap.Error(err))
		return nil
	}
	n, _ := ianaindex.IANA.Name(enc)
	log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
	return enc
}
