package entities

// Sort keys accepted by the search engine.
const (
	SortByRelevance  = "relevance"
	SortByDate       = "date"
	SortByPrice      = "price"
	SortByRating     = "rating"
	SortByDistance   = "distance"
	SortByPopularity = "popularity"
)

// Sort orders.
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// DefaultLimit is the page size applied when the caller supplies none.
const DefaultLimit = 20

// SearchQuery is a request descriptor. It is a value type: two queries
// with identical field values are interchangeable for caching purposes
// regardless of object identity. Zero values mean "filter not supplied"
// except for the enum fields, which Normalized fills with their defaults.
type SearchQuery struct {
	Query           string   `json:"query,omitempty"`
	Location        string   `json:"location,omitempty"`
	Services        []string `json:"services,omitempty"`
	PriceMin        int      `json:"price_min,omitempty"`
	PriceMax        int      `json:"price_max,omitempty"`
	Rating          float64  `json:"rating,omitempty"`
	Status          string   `json:"status,omitempty"`
	Urgency         string   `json:"urgency,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	AvailableDate   string   `json:"available_date,omitempty"`
	AvailableTime   string   `json:"available_time,omitempty"`
	MaxDistance     float64  `json:"max_distance,omitempty"`
	Requirements    []string `json:"requirements,omitempty"`
	SortBy          string   `json:"sort_by,omitempty"`
	SortOrder       string   `json:"sort_order,omitempty"`
	Limit           int      `json:"limit,omitempty"`
	Offset          int      `json:"offset,omitempty"`
}

// Normalized returns a copy with boundary defaults applied:
// status=recruiting, urgency=all, experienceLevel=all, sortBy=relevance,
// sortOrder=desc, limit=20, offset=0.
func (q SearchQuery) Normalized() SearchQuery {
	if q.Status == "" {
		q.Status = StatusRecruiting
	}
	if q.Urgency == "" {
		q.Urgency = FilterAll
	}
	if q.ExperienceLevel == "" {
		q.ExperienceLevel = FilterAll
	}
	if q.SortBy == "" {
		q.SortBy = SortByRelevance
	}
	if q.SortOrder == "" {
		q.SortOrder = SortOrderDesc
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// ActiveFilters returns the names of the filters this query actually
// constrains. Used by the analytics engine to detect query refinements.
func (q SearchQuery) ActiveFilters() []string {
	var active []string
	if q.Location != "" {
		active = append(active, "location")
	}
	if len(q.Services) > 0 {
		active = append(active, "services")
	}
	if q.PriceMin > 0 {
		active = append(active, "price_min")
	}
	if q.PriceMax > 0 {
		active = append(active, "price_max")
	}
	if q.Rating > 0 {
		active = append(active, "rating")
	}
	if q.Status != "" && q.Status != StatusRecruiting && q.Status != FilterAll {
		active = append(active, "status")
	}
	if q.Urgency != "" && q.Urgency != FilterAll {
		active = append(active, "urgency")
	}
	if q.ExperienceLevel != "" && q.ExperienceLevel != FilterAll {
		active = append(active, "experience_level")
	}
	if q.AvailableDate != "" {
		active = append(active, "available_date")
	}
	if q.AvailableTime != "" {
		active = append(active, "available_time")
	}
	if q.MaxDistance > 0 {
		active = append(active, "max_distance")
	}
	if len(q.Requirements) > 0 {
		active = append(active, "requirements")
	}
	return active
}
