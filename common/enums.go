// Package common holds enums shared by configuration, linting and reporting
// code. Keeping them here lets the report package stay independent of the
// configuration package.
package common

//go:generate go tool go-enum --marshal --names

// Severity of reported problems.
// ENUM(warning, error)
type Severity int

// Symbol returns the marker stylelint-like formatters print in front of a finding.
func (s Severity) Symbol() string {
	if s == SeverityError {
		return "✖"
	}
	return "⚠"
}

// Specification of requested report format.
// ENUM(text, json, checkstyle)
type OutputFormat int

func (o OutputFormat) Ext() string {
	switch o {
	case OutputFormatText:
		return ".txt"
	case OutputFormatJson:
		return ".json"
	case OutputFormatCheckstyle:
		return ".xml"
	default:
		// this should never happen
		panic("unsupported output format requested")
	}
}
