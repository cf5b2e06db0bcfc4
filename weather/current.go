package weather

import (
	"fmt"

	"weatherwise/models"
)

// Current maps a current conditions payload to its display record
func Current(raw models.CurrentConditions) models.CurrentWeather {
	condition := firstCondition(raw.Weather)

	gusts := raw.Wind.Gust
	if gusts == 0 {
		gusts = raw.Wind.Speed
	}

	return models.CurrentWeather{
		City:           CityLabel(raw),
		Temperature:    raw.Main.Temp,
		FeelsLike:      raw.Main.FeelsLike,
		Description:    condition.Description,
		WindGusts:      gusts,
		Pressure:       raw.Main.Pressure,
		Humidity:       raw.Main.Humidity,
		VisibilityKm:   metresToKm(raw.Visibility),
		CloudCover:     raw.Clouds.All,
		DewPoint:       DewPoint(raw.Main.Temp, raw.Main.Humidity),
		Icon:           condition.Icon,
		TimezoneOffset: raw.Timezone,
	}
}

// CityLabel is "name, country" as reported by the provider
func CityLabel(raw models.CurrentConditions) string {
	if raw.Sys.Country == "" {
		return raw.Name
	}
	return fmt.Sprintf("%s, %s", raw.Name, raw.Sys.Country)
}

// DewPoint is the rough estimate temperature - (100 - humidity) / 5. It is
// not the Magnus formula and is kept as is for display compatibility.
func DewPoint(temperature float64, humidity int) float64 {
	return temperature - float64(100-humidity)/5
}
