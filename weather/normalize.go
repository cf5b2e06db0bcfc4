package weather

import (
	"strings"
	"time"

	"weatherwise/models"
)

// MaxForecastDays is how many calendar days a forecast is cut to
const MaxForecastDays = 5

// DailyForecasts reduces 3-hour samples to one record per calendar day.
// The first sample seen for a date wins and samples are not reordered, so
// the result follows provider order. At most MaxForecastDays records are
// returned; fewer when the samples cover fewer dates.
func DailyForecasts(samples []models.ForecastSample) []models.DailyForecast {
	days := make([]models.DailyForecast, 0, MaxForecastDays)
	seen := make(map[string]struct{}, MaxForecastDays)

	for _, sample := range samples {
		if len(days) == MaxForecastDays {
			break
		}

		date := sampleDate(sample)
		if _, ok := seen[date]; ok {
			continue
		}
		seen[date] = struct{}{}

		days = append(days, daily(date, sample))
	}

	return days
}

// sampleDate is the YYYY-MM-DD part of dt_txt, falling back to the unix
// timestamp when the text is missing
func sampleDate(sample models.ForecastSample) string {
	if sample.DtTxt != "" {
		date, _, _ := strings.Cut(sample.DtTxt, " ")
		return date
	}
	return time.Unix(sample.Dt, 0).UTC().Format("2006-01-02")
}

func daily(date string, sample models.ForecastSample) models.DailyForecast {
	condition := firstCondition(sample.Weather)

	return models.DailyForecast{
		Date:         date,
		Temperature:  sample.Main.Temp,
		Description:  condition.Description,
		Icon:         condition.Icon,
		WindSpeed:    sample.Wind.Speed,
		Humidity:     sample.Main.Humidity,
		Pressure:     sample.Main.Pressure,
		VisibilityKm: metresToKm(sample.Visibility),
	}
}

func firstCondition(conditions []models.Condition) models.Condition {
	if len(conditions) == 0 {
		return models.Condition{}
	}
	return conditions[0]
}

func metresToKm(m int) float64 {
	return float64(m) / 1000
}
