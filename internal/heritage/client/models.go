// Package client provides HTTP client functionality for the heritage API
package client

import (
	"encoding/json"
	"time"
)

// HeritageItem is a catalogue record: a monument, site or collection object.
type HeritageItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type,omitempty"`
	Collection  string    `json:"collection,omitempty"`
	Institution string    `json:"institution,omitempty"`
	Keywords    []string  `json:"keywords,omitempty"`
	Period      *Period   `json:"period,omitempty"`
	Location    *Location `json:"location,omitempty"`
	License     string    `json:"license,omitempty"`
	Attribution string    `json:"attribution,omitempty"`
	MediaCount  int       `json:"media_count,omitempty"`
	URL         string    `json:"url,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Period is a dating range. Negative years are BCE.
type Period struct {
	Label     string `json:"label,omitempty"`
	StartYear *int   `json:"start_year,omitempty"`
	EndYear   *int   `json:"end_year,omitempty"`
}

// Location places an item on the map.
type Location struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Place   string  `json:"place,omitempty"`
	Region  string  `json:"region,omitempty"`
	Country string  `json:"country,omitempty"`
}

// SearchParams represents parameters for the /heritage search endpoint
type SearchParams struct {
	Q            string
	Types        []string
	Collection   string
	Institution  string
	Country      string
	Keywords     []string
	PeriodFrom   *int
	PeriodTo     *int
	HasMedia     *bool
	UpdatedSince *time.Time
	Sort         string
	Lang         string
	Cursor       string
	Limit        int
}

// SearchResult is one page of catalogue search results.
type SearchResult struct {
	Data       []HeritageItem `json:"data"`
	Total      int            `json:"total"`
	NextCursor string         `json:"next_cursor,omitempty"`
	HasMore    bool           `json:"has_more"`
}

// GetOptions carries per-call options for single-resource lookups.
type GetOptions struct {
	Lang   string
	Fields []string
	// IfNoneMatch and IfModifiedSince are sent verbatim as conditional headers.
	IfNoneMatch     string
	IfModifiedSince string
}

// Change is an entry of the catalogue change feed.
type Change struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"` // "created", "updated" or "deleted"
	ChangedAt time.Time `json:"changed_at"`
}

// ChangesParams represents parameters for the /heritage/changes endpoint
type ChangesParams struct {
	Since  time.Time
	Cursor string
	Limit  int
}

// ChangeFeed is one page of the change feed.
type ChangeFeed struct {
	Data       []Change `json:"data"`
	NextCursor string   `json:"next_cursor,omitempty"`
	HasMore    bool     `json:"has_more"`
}

// StatsParams represents parameters for the /heritage/stats endpoint
type StatsParams struct {
	GroupBy    string // "type", "country", "collection", "period"
	Collection string
	Country    string
}

// StatsBucket is a single aggregation bucket.
type StatsBucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Stats is the catalogue aggregation response.
type Stats struct {
	Total   int           `json:"total"`
	GroupBy string        `json:"group_by,omitempty"`
	Buckets []StatsBucket `json:"buckets"`
}

// Collection is a named set of heritage items curated by an institution.
type Collection struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Institution string `json:"institution,omitempty"`
	Description string `json:"description,omitempty"`
	License     string `json:"license,omitempty"`
	ItemCount   int    `json:"item_count"`
}

// ListParams represents cursor pagination parameters.
type ListParams struct {
	Cursor string
	Limit  int
}

// CollectionList is one page of collections.
type CollectionList struct {
	Data       []Collection `json:"data"`
	NextCursor string       `json:"next_cursor,omitempty"`
	HasMore    bool         `json:"has_more"`
}

// BBox is a WGS84 bounding box.
type BBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// GeoParams represents parameters for the GeoJSON endpoints.
type GeoParams struct {
	BBox       *BBox
	Types      []string
	Collection string
	Limit      int
}

// Geometry is a GeoJSON geometry with undecoded coordinates.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Feature is a GeoJSON feature.
type Feature struct {
	Type       string         `json:"type"`
	ID         string         `json:"id,omitempty"`
	Geometry   *Geometry      `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
	BBox     []float64 `json:"bbox,omitempty"`
}

// NearbyParams represents parameters for the /heritage/nearby endpoint
type NearbyParams struct {
	Lat          float64
	Lon          float64
	RadiusMeters int
	Types        []string
	Limit        int
}

// NearbyItem is a heritage item with its distance from the query point.
type NearbyItem struct {
	HeritageItem
	DistanceMeters float64 `json:"distance_m"`
}

// NearbyResult is the nearby search response.
type NearbyResult struct {
	Data []NearbyItem `json:"data"`
}

// MediaItem describes an image, audio, video or document attached to an item.
type MediaItem struct {
	ID           string `json:"id"`
	HeritageID   string `json:"heritage_id"`
	Kind         string `json:"kind"`
	MIMEType     string `json:"mime_type,omitempty"`
	Title        string `json:"title,omitempty"`
	Creator      string `json:"creator,omitempty"`
	License      string `json:"license,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// MediaList is the media listing for one item.
type MediaList struct {
	Data []MediaItem `json:"data"`
}

// MediaUpload is a contributed media file.
type MediaUpload struct {
	Filename    string
	ContentType string
	Data        []byte
	Title       string
	Creator     string
	License     string
}

// CitationParams represents parameters for the JSON citation endpoint.
type CitationParams struct {
	Style string // e.g. "apa", "chicago", "harvard"
	Lang  string
}

// Citation is a formatted reference with the credit the data source requires.
type Citation struct {
	HeritageID  string         `json:"heritage_id"`
	Style       string         `json:"style"`
	Text        string         `json:"text"`
	CSL         map[string]any `json:"csl,omitempty"`
	Attribution string         `json:"attribution,omitempty"`
	License     string         `json:"license,omitempty"`
	URL         string         `json:"url,omitempty"`
	AccessedAt  *time.Time     `json:"accessed_at,omitempty"`
}

// CitationFormat selects a plain-text citation export.
type CitationFormat string

const (
	CitationBibTeX CitationFormat = "bibtex"
	CitationRIS    CitationFormat = "ris"
)

// SummarizeRequest is the body of the AI summary endpoint.
type SummarizeRequest struct {
	Lang     string `json:"lang,omitempty"`
	MaxWords int    `json:"max_words,omitempty"`
	Audience string `json:"audience,omitempty"`
}

// Summary is a generated description of one item.
type Summary struct {
	HeritageID string   `json:"heritage_id"`
	Summary    string   `json:"summary"`
	Lang       string   `json:"lang,omitempty"`
	Model      string   `json:"model,omitempty"`
	Sources    []string `json:"sources,omitempty"`
}

// AskRequest is the body of the AI question-answering endpoint.
type AskRequest struct {
	Question    string   `json:"question"`
	Lang        string   `json:"lang,omitempty"`
	HeritageIDs []string `json:"heritage_ids,omitempty"`
	Limit       int      `json:"limit,omitempty"`
}

// AnswerCitation links an answer back to a catalogue record.
type AnswerCitation struct {
	HeritageID string `json:"heritage_id"`
	Title      string `json:"title,omitempty"`
	Snippet    string `json:"snippet,omitempty"`
}

// Answer is the AI question-answering response.
type Answer struct {
	Answer    string           `json:"answer"`
	Citations []AnswerCitation `json:"citations,omitempty"`
	Model     string           `json:"model,omitempty"`
}

// OAIParams represents OAI-PMH request arguments.
type OAIParams struct {
	Verb            string // Identify, ListRecords, ListIdentifiers, GetRecord, ListSets, ListMetadataFormats
	Identifier      string
	MetadataPrefix  string
	Set             string
	From            string
	Until           string
	ResumptionToken string
}

// ExportParams represents parameters shared by the bulk export endpoints.
type ExportParams struct {
	Collection   string
	Types        []string
	Country      string
	UpdatedSince *time.Time
	Fields       []string
	Limit        int
}

// Correction is a user-submitted fix for a catalogue field.
type Correction struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Comment string `json:"comment,omitempty"`
	Email   string `json:"email,omitempty"`
}

// CorrectionReceipt acknowledges a submitted correction.
type CorrectionReceipt struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	ReceivedAt time.Time `json:"received_at"`
}
