package entities

import "time"

// Listing lifecycle statuses.
const (
	StatusRecruiting = "recruiting"
	StatusFull       = "full"
	StatusClosed     = "closed"
)

// Listing urgency levels.
const (
	UrgencyNormal = "normal"
	UrgencyUrgent = "urgent"
)

// Assistant experience tiers.
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
)

// FilterAll disables an enum filter (matches every value).
const FilterAll = "all"

// ListingLocation describes where a practice session takes place.
type ListingLocation struct {
	Station    string  `json:"station"`
	Address    string  `json:"address"`
	Prefecture string  `json:"prefecture"`
	DistanceKm float64 `json:"distance_km"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// Assistant is the trainee hairdresser behind a listing.
type Assistant struct {
	Name            string `json:"name"`
	ExperienceLevel string `json:"experience_level"`
}

// Salon is the salon hosting the practice session.
type Salon struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

// Listing is an immutable snapshot of one recruitment listing at index
// time. SearchableText is the precomputed title+description blob used for
// full-text matching so the engine never re-concatenates per query. The
// engine treats listings as read-mostly; updates arrive as a full corpus
// swap.
type Listing struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	SearchableText  string          `json:"searchable_text"`
	Keywords        []string        `json:"keywords"`
	Location        ListingLocation `json:"location"`
	Price           int             `json:"price"`
	OriginalPrice   int             `json:"original_price"`
	Services        []string        `json:"services"`
	Rating          float64         `json:"rating"`
	ReviewCount     int             `json:"review_count"`
	Assistant       Assistant       `json:"assistant"`
	Salon           Salon           `json:"salon"`
	Status          string          `json:"status"`
	Urgency         string          `json:"urgency"`
	PostedAt        time.Time       `json:"posted_at"`
	AvailableDates  []string        `json:"available_dates"`
	AvailableTimes  []string        `json:"available_times"`
	Requirements    []string        `json:"requirements"`
	ModelCount      int             `json:"model_count"`
	AppliedCount    int             `json:"applied_count"`
	DurationMinutes int             `json:"duration_minutes"`
}
