package autocomplete

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"weatherwise/datasource"
	"weatherwise/logger"
	"weatherwise/models"
)

// DefaultLimit is how many candidates a lookup asks the geocoder for
const DefaultLimit = 5

var (
	// ErrEmptyQuery is returned when a blank query is submitted
	ErrEmptyQuery = errors.New("search query is empty")
	// ErrMalformedSuggestion is returned when a selected suggestion lacks a name or country
	ErrMalformedSuggestion = errors.New("city name or country is undefined")
	// ErrStale is returned when a newer lookup started before this one finished
	ErrStale = errors.New("stale suggestion response discarded")
)

// SearchBar tracks the text typed into the city search box and the
// suggestions offered for it.
//
// Lookups are not debounced. Every lookup takes a token from a counter and
// only the response carrying the latest token is kept, so a slow response
// for an older query can never replace the list for a newer one.
type SearchBar struct {
	geocoder datasource.Geocoder
	limit    int
	log      logger.Logger

	mu          sync.Mutex
	token       uint64
	query       string
	suggestions []models.CitySuggestion
}

// NewSearchBar creates a search bar backed by geocoder
func NewSearchBar(geocoder datasource.Geocoder, limit int, log logger.Logger) *SearchBar {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &SearchBar{
		geocoder:    geocoder,
		limit:       limit,
		log:         log.WithField("component", "search_bar"),
		suggestions: []models.CitySuggestion{},
	}
}

// Change records a new query and refreshes the suggestions for it. A blank
// query empties the list without calling the geocoder. When the lookup
// fails the previous list is left in place.
func (b *SearchBar) Change(ctx context.Context, query string) ([]models.CitySuggestion, error) {
	b.mu.Lock()
	b.token++
	token := b.token
	b.query = query
	if strings.TrimSpace(query) == "" {
		b.suggestions = []models.CitySuggestion{}
		b.mu.Unlock()
		return []models.CitySuggestion{}, nil
	}
	b.mu.Unlock()

	results, err := b.geocoder.Direct(ctx, query, b.limit)
	if err != nil {
		b.log.Errorf("Error fetching suggestions for %q: %v", query, err)
		return nil, fmt.Errorf("fetch suggestions: %w", err)
	}

	suggestions := make([]models.CitySuggestion, 0, len(results))
	for _, r := range results {
		suggestions = append(suggestions, models.CitySuggestion{
			Name:    r.Name,
			State:   r.State,
			Country: r.Country,
		})
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if token != b.token {
		b.log.Debugf("Discarding suggestions for %q, a newer query is pending", query)
		return nil, ErrStale
	}

	b.suggestions = suggestions
	return copySuggestions(suggestions), nil
}

// SetQuery replaces the tracked text without a lookup
func (b *SearchBar) SetQuery(query string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.query = query
}

// Select turns a chosen suggestion into the label "name[, state], country"
// and resets the bar. Suggestions without a name or country are rejected
// and leave the bar untouched.
func (b *SearchBar) Select(s models.CitySuggestion) (string, error) {
	if !s.Valid() {
		b.log.Warnf("Ignoring suggestion %+v: %v", s, ErrMalformedSuggestion)
		return "", ErrMalformedSuggestion
	}

	b.reset()
	return s.Label(), nil
}

// Submit returns the typed query for a search and resets the bar. A blank
// query is logged and changes nothing.
func (b *SearchBar) Submit() (string, error) {
	b.mu.Lock()
	query := b.query
	b.mu.Unlock()

	if strings.TrimSpace(query) == "" {
		b.log.Warn("Search query is empty.")
		return "", ErrEmptyQuery
	}

	b.reset()
	return query, nil
}

// Query returns the tracked text
func (b *SearchBar) Query() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.query
}

// Suggestions returns the current suggestion list
func (b *SearchBar) Suggestions() []models.CitySuggestion {
	b.mu.Lock()
	defer b.mu.Unlock()

	return copySuggestions(b.suggestions)
}

// reset clears the query and suggestions and invalidates in-flight lookups
func (b *SearchBar) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.token++
	b.query = ""
	b.suggestions = []models.CitySuggestion{}
}

func copySuggestions(in []models.CitySuggestion) []models.CitySuggestion {
	out := make([]models.CitySuggestion, len(in))
	copy(out, in)
	return out
}
