package entities

// SearchResult is one ordered page of matched listings. Total is the
// pre-pagination match count. SearchTimeMs is the engine execution
// latency; zero on a cache hit.
type SearchResult struct {
	Items        []Listing `json:"items"`
	Total        int       `json:"total"`
	SearchTimeMs int64     `json:"search_time_ms"`
}
