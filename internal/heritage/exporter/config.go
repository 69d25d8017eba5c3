// Package exporter mirrors the heritage catalogue into a local sink.
package exporter

// Config holds the configuration for a catalogue sync.
type Config struct {
	Collection string   `yaml:"collection,omitempty" json:"collection,omitempty"`
	Types      []string `yaml:"types,omitempty" json:"types,omitempty"`
	Country    string   `yaml:"country,omitempty" json:"country,omitempty"`
	Lang       string   `yaml:"lang,omitempty" json:"lang,omitempty"`
	PageSize   int      `yaml:"page_size" json:"page_size"`
	// Full ignores the stored bookmark and re-exports everything.
	Full             bool   `yaml:"full" json:"full"`
	IncludeCitations bool   `yaml:"include_citations" json:"include_citations"`
	CitationStyle    string `yaml:"citation_style,omitempty" json:"citation_style,omitempty"`
	// Concurrency bounds in-flight citation lookups.
	Concurrency int `yaml:"concurrency" json:"concurrency"`
}

// DefaultConcurrency is used when Config.Concurrency is not positive.
const DefaultConcurrency = 4
