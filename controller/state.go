package controller

import (
	"context"
	"errors"
	"time"
)

// State is where a page is in its fetch lifecycle. There is no explicit
// loading state: a page keeps showing what it had until a fetch resolves.
type State int

const (
	Idle State = iota
	Loaded
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loaded:
		return "loaded"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Messages shown inline when an action fails
const (
	MsgCityNotFound        = "City not found."
	MsgWeatherUnavailable  = "Unable to fetch weather data."
	MsgForecastUnavailable = "Unable to load forecast data. Please try again later."
	MsgLocationDenied      = "Location access denied. Please search for a city manually."
	MsgLocationUnsupported = "Geolocation is not supported. Please search for a city manually."
)

var (
	ErrEmptyCity = errors.New("city name is empty")
	ErrStale     = errors.New("stale response discarded")
	ErrNoSuchDay = errors.New("no forecast for that day")
)

// DateSource supplies the device date shown on every page
type DateSource interface {
	Date() string
	Now() time.Time
}

// Position is a device location
type Position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

var (
	ErrLocationDenied      = errors.New("location access denied")
	ErrLocationUnsupported = errors.New("geolocation is not supported")
)

// Locator resolves the device position. Implementations return
// ErrLocationDenied or ErrLocationUnsupported when no position is available.
type Locator interface {
	Locate(ctx context.Context) (Position, error)
}

// LocatorFunc adapts a function to Locator
type LocatorFunc func(ctx context.Context) (Position, error)

func (f LocatorFunc) Locate(ctx context.Context) (Position, error) {
	return f(ctx)
}

// Fixed returns a Locator that always reports p
func Fixed(p Position) Locator {
	return LocatorFunc(func(context.Context) (Position, error) { return p, nil })
}

// Failing returns a Locator that always fails with err
func Failing(err error) Locator {
	return LocatorFunc(func(context.Context) (Position, error) { return Position{}, err })
}
