package entities

import (
	"time"
)

// Search event sources.
const (
	SourceSearchBox  = "search_box"
	SourceFilter     = "filter"
	SourceSuggestion = "suggestion"
	SourceVoice      = "voice"
	SourceBarcode    = "barcode"
)

// ClickedResult records one result click appended to a search event
// after the fact.
type ClickedResult struct {
	ItemID    int64     `json:"item_id"`
	Position  int       `json:"position"`
	Timestamp time.Time `json:"timestamp"`
}

// SearchEvent represents a single search interaction for analytics.
// Created once per search call and mutated only by appending clicks.
// Events live in a bounded buffer; they are best-effort telemetry, not a
// durable log.
type SearchEvent struct {
	ID             string          `json:"id"`
	Timestamp      time.Time       `json:"timestamp"`
	UserID         string          `json:"user_id,omitempty"`
	SessionID      string          `json:"session_id"`
	Query          string          `json:"query"`
	Filters        SearchQuery     `json:"filters"`
	ResultCount    int             `json:"result_count"`
	ClickedResults []ClickedResult `json:"clicked_results,omitempty"`
	SearchTimeMs   int64           `json:"search_time_ms"`
	NoResults      bool            `json:"no_results_search"`
	Source         string          `json:"source"`
	DeviceType     string          `json:"device_type,omitempty"`
	Location       string          `json:"location,omitempty"`
}
