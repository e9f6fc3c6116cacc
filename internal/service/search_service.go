package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/weatherdash/backend/internal/domain"
	"github.com/weatherdash/backend/internal/query"
)

// MinSearchLength is the shortest query that triggers a lookup
const MinSearchLength = 3

// SearchResult is a location search outcome
type SearchResult struct {
	Query   string                   `json:"query"`
	Pending bool                     `json:"pending"`
	Results []domain.GeocodingResult `json:"results"`
}

// SearchService backs the city search box
type SearchService struct {
	api    domain.WeatherAPI
	client *query.Client
}

// NewSearchService creates a location search service
func NewSearchService(api domain.WeatherAPI, client *query.Client) *SearchService {
	return &SearchService{api: api, client: client}
}

// Search looks up places by name. Queries shorter than MinSearchLength are
// answered with no results and never reach the API.
func (s *SearchService) Search(ctx context.Context, q string) (SearchResult, error) {
	q = strings.TrimSpace(q)
	out := SearchResult{Query: q, Results: []domain.GeocodingResult{}}
	if utf8.RuneCountInString(q) < MinSearchLength {
		return out, nil
	}

	results, pending, err := searchLocations(ctx, s.client, s.api, q)
	if err != nil {
		return out, err
	}
	out.Pending = pending
	if results != nil {
		out.Results = results
	}
	return out, nil
}
