// Package exporter mirrors the heritage catalogue into a local sink.
package exporter

import (
	"time"

	"github.com/rshade/heritage-client/internal/heritage/client"
)

// mapItemToRecord converts a catalogue item to an ExportRecord.
func mapItemToRecord(item client.HeritageItem, queryHash string, syncedAt time.Time) ExportRecord {
	record := ExportRecord{
		RecordID:    RecordID(item),
		HeritageID:  item.ID,
		Title:       item.Title,
		Type:        item.Type,
		Collection:  item.Collection,
		Institution: item.Institution,
		Keywords:    normalizeKeywords(item.Keywords),
		License:     item.License,
		Attribution: item.Attribution,
		URL:         item.URL,
		UpdatedAt:   item.UpdatedAt,
		QueryHash:   queryHash,
		SyncedAt:    syncedAt,
		Diagnostics: NewDiagnostics(),
	}

	if item.Period != nil {
		record.PeriodLabel = item.Period.Label
		record.StartYear = item.Period.StartYear
		record.EndYear = item.Period.EndYear
	}

	if loc := item.Location; loc != nil {
		lat, lon := loc.Lat, loc.Lon
		record.Lat = &lat
		record.Lon = &lon
		record.Place = loc.Place
		record.Country = loc.Country
	}

	addDiagnostics(&record)

	return record
}

// addDiagnostics flags missing or suspicious fields and clears the
// diagnostics when there is nothing to report.
func addDiagnostics(record *ExportRecord) {
	diag := record.Diagnostics

	if record.Title == "" {
		diag.AddMissingField("title")
	}
	if record.License == "" {
		diag.AddMissingField("license")
	}
	if record.Lat == nil || record.Lon == nil {
		diag.AddMissingField("location")
	} else if *record.Lat < -90 || *record.Lat > 90 || *record.Lon < -180 || *record.Lon > 180 {
		diag.AddWarning(WarnCoordinatesOutOfRange)
	}

	if record.StartYear != nil && record.EndYear != nil && *record.EndYear < *record.StartYear {
		diag.AddWarning(WarnPeriodEndBeforeStart)
	}

	if !diag.HasIssues() {
		record.Diagnostics = nil
	}
}
