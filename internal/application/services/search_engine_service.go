package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cutmatch/cutmatch-backend/internal/domain/entities"
	"github.com/cutmatch/cutmatch-backend/pkg/keywords"
)

// Relevance scoring weights. An exact phrase hit must outrank any
// combination of token-level matches.
const (
	phraseMatchScore   = 10.0
	tokenOverlapWeight = 5.0
	reverseTokenScore  = 0.5
	reverseTokenCap    = 2.0
)

// SearchEngineService executes structured queries against an in-memory
// listing corpus: filter, text relevance, scoring, total ordering and
// pagination. The corpus is read-mostly; updates arrive as a wholesale
// swap via ReplaceCorpus.
type SearchEngineService struct {
	mu     sync.RWMutex
	corpus []entities.Listing
}

// NewSearchEngineService creates an engine over the given corpus
func NewSearchEngineService(corpus []entities.Listing) *SearchEngineService {
	engine := &SearchEngineService{}
	engine.ReplaceCorpus(corpus)
	return engine
}

// ReplaceCorpus swaps the full corpus. Callers are responsible for
// invalidating any cached results afterwards.
func (s *SearchEngineService) ReplaceCorpus(corpus []entities.Listing) {
	snapshot := make([]entities.Listing, len(corpus))
	copy(snapshot, corpus)

	s.mu.Lock()
	s.corpus = snapshot
	s.mu.Unlock()
}

// Size returns the number of indexed listings
func (s *SearchEngineService) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.corpus)
}

type scoredListing struct {
	listing entities.Listing
	score   float64
}

// Search applies every supplied filter predicate, scores survivors per
// the requested sort key, orders them deterministically and returns one
// page. An empty corpus or zero matches is a valid result, not an error.
func (s *SearchEngineService) Search(ctx context.Context, query entities.SearchQuery) (*entities.SearchResult, error) {
	q := query.Normalized()
	start := time.Now()

	s.mu.RLock()
	corpus := s.corpus
	s.mu.RUnlock()

	phrase := strings.ToLower(strings.TrimSpace(q.Query))
	var queryTokens []string
	if phrase != "" {
		queryTokens = keywords.Extract(q.Query)
	}

	matched := make([]scoredListing, 0, len(corpus))
	for _, listing := range corpus {
		if !matchesFilters(listing, q) {
			continue
		}

		textScore := 0.0
		if phrase != "" {
			var hit bool
			textScore, hit = relevanceScore(listing, queryTokens, phrase)
			// Without any shared token the listing is only excluded when
			// relevance ordering was requested; otherwise text match
			// contributes to score, not to admission.
			if !hit && q.SortBy == entities.SortByRelevance {
				continue
			}
		}

		matched = append(matched, scoredListing{
			listing: listing,
			score:   sortScore(listing, q.SortBy, textScore),
		})
	}

	orderResults(matched, q.SortOrder)

	total := len(matched)
	page := paginate(matched, q.Offset, q.Limit)

	items := make([]entities.Listing, len(page))
	for i, scored := range page {
		items[i] = scored.listing
	}

	return &entities.SearchResult{
		Items:        items,
		Total:        total,
		SearchTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

// matchesFilters retains listings satisfying all supplied predicates
func matchesFilters(listing entities.Listing, q entities.SearchQuery) bool {
	if q.Status != "" && q.Status != entities.FilterAll && listing.Status != q.Status {
		return false
	}
	if q.Urgency != "" && q.Urgency != entities.FilterAll && listing.Urgency != q.Urgency {
		return false
	}
	if q.ExperienceLevel != "" && q.ExperienceLevel != entities.FilterAll &&
		listing.Assistant.ExperienceLevel != q.ExperienceLevel {
		return false
	}
	if len(q.Services) > 0 && !intersects(q.Services, listing.Services) {
		return false
	}
	if q.PriceMin > 0 && listing.Price < q.PriceMin {
		return false
	}
	if q.PriceMax > 0 && listing.Price > q.PriceMax {
		return false
	}
	if q.Rating > 0 && listing.Rating < q.Rating {
		return false
	}
	if q.MaxDistance > 0 && listing.Location.DistanceKm > q.MaxDistance {
		return false
	}
	if q.Location != "" && !matchesLocation(listing.Location, q.Location) {
		return false
	}
	if q.AvailableDate != "" && !contains(listing.AvailableDates, q.AvailableDate) {
		return false
	}
	if q.AvailableTime != "" && !contains(listing.AvailableTimes, q.AvailableTime) {
		return false
	}
	for _, required := range q.Requirements {
		if !anyContainsFold(listing.Requirements, required) {
			return false
		}
	}
	return true
}

func matchesLocation(location entities.ListingLocation, needle string) bool {
	needle = strings.ToLower(needle)
	return strings.Contains(strings.ToLower(location.Station), needle) ||
		strings.Contains(strings.ToLower(location.Address), needle) ||
		strings.Contains(strings.ToLower(location.Prefecture), needle)
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func anyContainsFold(haystacks []string, needle string) bool {
	needle = strings.ToLower(needle)
	for _, haystack := range haystacks {
		if strings.Contains(strings.ToLower(haystack), needle) {
			return true
		}
	}
	return false
}

// relevanceScore combines exact-phrase containment with token overlap in
// both directions. Japanese queries often tokenize to a single compound
// token, so a listing whose own tokens appear inside the query phrase
// still counts as a partial match.
func relevanceScore(listing entities.Listing, queryTokens []string, phrase string) (float64, bool) {
	text := strings.ToLower(listing.SearchableText)

	score := 0.0
	hit := false

	if strings.Contains(text, phrase) {
		score += phraseMatchScore
		hit = true
	}

	if len(queryTokens) > 0 {
		found := 0
		for _, token := range queryTokens {
			if strings.Contains(text, token) {
				found++
			}
		}
		if found > 0 {
			hit = true
			score += tokenOverlapWeight * float64(found) / float64(len(queryTokens))
		}
	}

	reverse := 0.0
	for _, token := range keywords.Extract(listing.SearchableText) {
		if strings.Contains(phrase, token) {
			reverse += reverseTokenScore
			hit = true
			if reverse >= reverseTokenCap {
				break
			}
		}
	}
	score += reverse

	return score, hit
}

// sortScore maps a listing to its sort key. Higher is better on the
// default descending order, so price and distance use inverses to put
// cheaper and closer listings first.
func sortScore(listing entities.Listing, sortBy string, textScore float64) float64 {
	switch sortBy {
	case entities.SortByDate:
		return float64(listing.PostedAt.Unix())
	case entities.SortByPrice:
		return 1.0 / float64(listing.Price+1)
	case entities.SortByRating:
		return listing.Rating
	case entities.SortByDistance:
		return 1.0 / (1.0 + listing.Location.DistanceKm)
	case entities.SortByPopularity:
		score := float64(listing.ReviewCount)
		if listing.ModelCount > 0 {
			score += 10.0 * float64(listing.AppliedCount) / float64(listing.ModelCount)
		}
		return score
	default:
		return textScore
	}
}

// orderResults sorts by score per the requested order, tie-broken by
// PostedAt descending then id ascending so pagination is deterministic.
func orderResults(matched []scoredListing, sortOrder string) {
	asc := sortOrder == entities.SortOrderAsc
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].score != matched[j].score {
			if asc {
				return matched[i].score < matched[j].score
			}
			return matched[i].score > matched[j].score
		}
		if !matched[i].listing.PostedAt.Equal(matched[j].listing.PostedAt) {
			return matched[i].listing.PostedAt.After(matched[j].listing.PostedAt)
		}
		return matched[i].listing.ID < matched[j].listing.ID
	})
}

func paginate(matched []scoredListing, offset, limit int) []scoredListing {
	if offset >= len(matched) {
		return nil
	}
	page := matched[offset:]
	if limit > 0 && limit < len(page) {
		page = page[:limit]
	}
	return page
}
