package datasource

import (
	"context"
	"errors"
	"fmt"

	"weatherwise/models"
)

// CurrentSource fetches current conditions
type CurrentSource interface {
	// CurrentByCity fetches current conditions for a free text city query
	CurrentByCity(ctx context.Context, city string) (models.CurrentConditions, error)

	// CurrentByCoords fetches current conditions at a latitude/longitude
	CurrentByCoords(ctx context.Context, lat, lon float64) (models.CurrentConditions, error)
}

// ForecastSource fetches the 5 day / 3 hour forecast
type ForecastSource interface {
	// FetchForecast returns the forecast samples for a city, in the order the provider sent them
	FetchForecast(ctx context.Context, city string) (models.ForecastResponse, error)
}

// Geocoder resolves free text into place candidates
type Geocoder interface {
	// Direct returns at most limit candidates for query
	Direct(ctx context.Context, query string, limit int) ([]models.GeoLocation, error)
}

// APIError is returned when the provider answers with a non-200 status
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a provider 404, which the provider uses
// for unknown cities
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
