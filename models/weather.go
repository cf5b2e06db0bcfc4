package models

import (
	"fmt"
)

// IconBaseURL is where the provider serves its condition icons
const IconBaseURL = "https://openweathermap.org/img/wn/"

// IconURL returns the provider address of the icon with the given code
func IconURL(code string) string {
	if code == "" {
		return ""
	}
	return fmt.Sprintf("%s%s@2x.png", IconBaseURL, code)
}

// CurrentWeather is the flat display record for current conditions in a city
type CurrentWeather struct {
	City           string  `json:"city"`           // "name, country"
	Temperature    float64 `json:"temperature"`    // in Celsius
	FeelsLike      float64 `json:"feelsLike"`      // in Celsius
	Description    string  `json:"description"`    // short text description
	WindGusts      float64 `json:"windGusts"`      // gust, or wind speed when no gust is reported
	Pressure       int     `json:"pressure"`       // in millibar
	Humidity       int     `json:"humidity"`       // percentage
	VisibilityKm   float64 `json:"visibilityKm"`   // in km
	CloudCover     int     `json:"cloudCover"`     // percentage
	DewPoint       float64 `json:"dewPoint"`       // approximation, in Celsius
	Icon           string  `json:"icon"`           // provider icon code
	TimezoneOffset int     `json:"timezoneOffset"` // seconds east of UTC
}
