package testutils

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"weatherwise/models"
)

type MockCurrentSource struct {
	mock.Mock
}

func (m *MockCurrentSource) CurrentByCity(ctx context.Context, city string) (models.CurrentConditions, error) {
	args := m.Called(ctx, city)
	return args.Get(0).(models.CurrentConditions), args.Error(1)
}

func (m *MockCurrentSource) CurrentByCoords(ctx context.Context, lat, lon float64) (models.CurrentConditions, error) {
	args := m.Called(ctx, lat, lon)
	return args.Get(0).(models.CurrentConditions), args.Error(1)
}

type MockForecastSource struct {
	mock.Mock
}

func (m *MockForecastSource) FetchForecast(ctx context.Context, city string) (models.ForecastResponse, error) {
	args := m.Called(ctx, city)
	return args.Get(0).(models.ForecastResponse), args.Error(1)
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Direct(ctx context.Context, query string, limit int) ([]models.GeoLocation, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GeoLocation), args.Error(1)
}

// Conditions builds a current conditions payload for city
func Conditions(name, country string, temp float64, humidity int) models.CurrentConditions {
	var c models.CurrentConditions
	c.Name = name
	c.Sys.Country = country
	c.Main.Temp = temp
	c.Main.FeelsLike = temp - 1
	c.Main.Humidity = humidity
	c.Main.Pressure = 1013
	c.Weather = []models.Condition{{Description: "clear sky", Icon: "01d"}}
	c.Wind.Speed = 3
	c.Visibility = 10000
	return c
}

// Forecast builds a forecast response with eight samples per day starting
// at 2026-10-19 00:00 UTC
func Forecast(days int, description string) models.ForecastResponse {
	var f models.ForecastResponse
	f.City.Name = "Calgary"
	f.City.Country = "CA"
	for d := 0; d < days; d++ {
		for h := 0; h < 24; h += 3 {
			var s models.ForecastSample
			s.DtTxt = formatSample(d, h)
			s.Main.Temp = float64(d*10 + h)
			s.Main.Humidity = 50
			s.Main.Pressure = 1010
			s.Wind.Speed = 4
			s.Visibility = 10000
			s.Weather = []models.Condition{{Description: description, Icon: "10d"}}
			f.List = append(f.List, s)
		}
	}
	return f
}

var forecastStart = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func formatSample(day, hour int) string {
	return forecastStart.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour).Format("2006-01-02 15:04:05")
}
