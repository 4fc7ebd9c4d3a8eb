package css

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}

	charsetPrefix = []byte(`@charset "`)
)

// Decode converts stylesheet bytes to UTF-8. Encoding is taken from byte
// order mark, then from leading @charset rule, UTF-8 is assumed otherwise.
// Returned name is canonical name of detected encoding. On error original data
// is returned untouched so caller may still try to use it.
func Decode(data []byte) ([]byte, string, error) {
	label := "utf-8"
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], label, nil
	case bytes.HasPrefix(data, bomUTF16BE):
		label = "utf-16be"
	case bytes.HasPrefix(data, bomUTF16LE):
		label = "utf-16le"
	case bytes.HasPrefix(data, charsetPrefix):
		rest := data[len(charsetPrefix):]
		if end := bytes.Index(rest, []byte(`";`)); end > 0 {
			label = strings.ToLower(strings.TrimSpace(string(rest[:end])))
		}
	}

	enc, name := charset.Lookup(label)
	if enc == nil {
		return data, "", fmt.Errorf("unsupported stylesheet charset %q", label)
	}
	if name == "utf-8" {
		return data, name, nil
	}

	r, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return data, "", fmt.Errorf("unable to decode stylesheet from %q: %w", name, err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return data, "", fmt.Errorf("unable to decode stylesheet from %q: %w", name, err)
	}
	return bytes.TrimPrefix(out, bomUTF8), name, nil
}
