package report

import (
	"io"
	"strconv"

	"github.com/beevik/etree"

	"nestlint/misc"
)

const parserSource = "css-parser"

// WriteCheckstyle writes reports as checkstyle XML understood by most CI
// systems.
func WriteCheckstyle(w io.Writer, reports []*Report) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("checkstyle")
	root.CreateAttr("version", misc.GetAppName()+"-"+misc.GetVersion())

	for _, r := range reports {
		file := root.CreateElement("file")
		file.CreateAttr("name", r.Source)

		for _, f := range r.Findings {
			e := file.CreateElement("error")
			e.CreateAttr("line", strconv.Itoa(f.Line))
			e.CreateAttr("column", strconv.Itoa(f.Column))
			e.CreateAttr("severity", f.Severity.String())
			e.CreateAttr("message", f.Text)
			e.CreateAttr("source", f.Rule)
		}
		for _, msg := range r.ParseWarnings {
			e := file.CreateElement("error")
			e.CreateAttr("severity", "info")
			e.CreateAttr("message", msg)
			e.CreateAttr("source", parserSource)
		}
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}
