package models

// DailyForecast is one calendar day of a five day forecast, taken from the
// first sample reported for that date
type DailyForecast struct {
	Date         string  `json:"date"`         // YYYY-MM-DD
	Temperature  float64 `json:"temperature"`  // in Celsius
	Description  string  `json:"description"`  // short text description
	Icon         string  `json:"icon"`         // provider icon code
	WindSpeed    float64 `json:"windSpeed"`    // as supplied by the provider
	Humidity     int     `json:"humidity"`     // percentage
	Pressure     int     `json:"pressure"`     // in millibar
	VisibilityKm float64 `json:"visibilityKm"` // in km
}
