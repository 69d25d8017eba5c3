package exporter

import "slices"

// Warning codes attached to exported records.
const (
	WarnCoordinatesOutOfRange = "coordinates_out_of_range"
	WarnPeriodEndBeforeStart  = "period_end_before_start"
	WarnCitationUnavailable   = "citation_unavailable"
)

// Diagnostics records data-quality problems found while mapping a catalogue
// item. A record without problems carries no Diagnostics at all.
type Diagnostics struct {
	// MissingFields names catalogue fields needed for reuse (title, license, location) that were empty.
	MissingFields []string `json:"missing_fields,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

// NewDiagnostics returns an empty Diagnostics.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

// AddMissingField records field once.
func (d *Diagnostics) AddMissingField(field string) {
	if !slices.Contains(d.MissingFields, field) {
		d.MissingFields = append(d.MissingFields, field)
	}
}

// AddWarning records code once.
func (d *Diagnostics) AddWarning(code string) {
	if !slices.Contains(d.Warnings, code) {
		d.Warnings = append(d.Warnings, code)
	}
}

// HasIssues reports whether anything was recorded. It is safe on a nil receiver.
func (d *Diagnostics) HasIssues() bool {
	return d != nil && (len(d.MissingFields) > 0 || len(d.Warnings) > 0)
}
