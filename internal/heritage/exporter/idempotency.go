// Package exporter mirrors the heritage catalogue into a local sink.
package exporter

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rshade/heritage-client/internal/heritage/client"
)

// RecordID creates a deterministic idempotency key for an exported item.
// Two snapshots of the same item with identical content share an ID, so
// re-running a sync can be deduplicated downstream.
func RecordID(item client.HeritageItem) string {
	parts := []string{
		item.ID,
		item.UpdatedAt.UTC().Format(time.RFC3339),
		item.Title,
		item.Type,
		item.Collection,
		item.Institution,
		item.License,
	}

	keywords := make([]string, len(item.Keywords))
	copy(keywords, item.Keywords)
	sort.Strings(keywords)
	parts = append(parts, strings.Join(keywords, ","))

	if item.Location != nil {
		parts = append(parts,
			fmt.Sprintf("%.16g", item.Location.Lat),
			fmt.Sprintf("%.16g", item.Location.Lon),
		)
	} else {
		parts = append(parts, "", "")
	}

	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%x", hash[:16])
}

// QueryHash identifies the slice of the catalogue a Config selects. It keys
// the sync bookmark, so it ignores options that do not change the selection.
func QueryHash(cfg Config) string {
	types := make([]string, len(cfg.Types))
	copy(types, cfg.Types)
	sort.Strings(types)

	parts := []string{
		cfg.Collection,
		strings.Join(types, ","),
		cfg.Country,
		cfg.Lang,
	}

	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%x", hash[:16])
}
