package report

import (
	"encoding/json"
	"io"
)

type jsonResult struct {
	Source        string    `json:"source"`
	Encoding      string    `json:"encoding,omitempty"`
	Errored       bool      `json:"errored"`
	Warnings      []Finding `json:"warnings"`
	ParseWarnings []string  `json:"parse_warnings"`
	Summary       Summary   `json:"summary"`
}

// WriteJSON writes reports as indented JSON array, one object per source.
func WriteJSON(w io.Writer, reports []*Report, strict bool) error {
	out := make([]jsonResult, 0, len(reports))
	for _, r := range reports {
		out = append(out, jsonResult{
			Source:        r.Source,
			Encoding:      r.Encoding,
			Errored:       r.Errored(strict),
			Warnings:      r.Findings,
			ParseWarnings: r.ParseWarnings,
			Summary:       r.Summary,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
