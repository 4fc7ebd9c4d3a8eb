// Package archive builds Walk abstraction on top of "archive/zip".
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/text/encoding"
)

// Options select entries visited by Walk.
type Options struct {
	// Prefix is matched against decoded entry name.
	Prefix string
	// Extensions limits walk to entries with one of listed extensions
	// (compared case-insensitively). Empty list selects every file.
	Extensions []string
	// CodePage, when set, is used to decode names of entries which do not
	// have UTF-8 flag in their headers.
	CodePage encoding.Encoding
}

// Entry is a file in archive selected by Walk.
type Entry struct {
	// Name is path inside archive, decoded when code page was forced.
	Name string
	File *zip.File
}

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to
// Walk. If an error is returned, processing stops.
type WalkFunc func(archive string, entry Entry) error

// Walk walks the all files in the archive which satisfy options, calling
// walkFn for each item. Archive with entries which have path traversal
// components ("..") or absolute paths is rejected to prevent Zip Slip attacks.
func Walk(archive string, opts Options, walkFn WalkFunc) error {

	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if !isSafePath(f.FileHeader.Name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", f.FileHeader.Name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		name := f.FileHeader.Name
		if n, err := DecodeName(f, opts.CodePage); err == nil {
			name = n
		}
		if !strings.HasPrefix(name, opts.Prefix) || !HasExtension(name, opts.Extensions) {
			continue
		}
		if err := walkFn(archive, Entry{Name: name, File: f}); err != nil {
			return err
		}
	}
	return nil
}

// DecodeName returns entry name converted from forced code page. Names which
// are marked as UTF-8 or were written without flag but with valid ASCII are
// returned as is.
func DecodeName(f *zip.File, cp encoding.Encoding) (string, error) {
	name := f.FileHeader.Name
	if cp == nil || !f.FileHeader.NonUTF8 {
		return name, nil
	}
	return cp.NewDecoder().String(name)
}

// HasExtension reports whether name ends with one of the extensions. Empty
// list matches everything.
func HasExtension(name string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.ToLower(path.Ext(name))
	for _, e := range extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// ReadEntry returns uncompressed content of the entry.
func ReadEntry(e Entry) ([]byte, error) {
	r, err := e.File.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// IsArchive checks file signature to see if it is a zip archive.
func IsArchive(fname string) (bool, error) {
	f, err := os.Open(fname)
	if err != nil {
		return false, err
	}
	defer f.Close()

	// filetype needs at most 262 bytes of header
	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return filetype.Is(head[:n], "zip"), nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
