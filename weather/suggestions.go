package weather

import (
	"strings"

	"weatherwise/models"
)

const (
	HeatAdvice  = "Stay hydrated and avoid outdoor activities during peak sun hours."
	ColdAdvice  = "Dress warmly and watch out for slippery surfaces."
	RainAdvice  = "Carry an umbrella and wear waterproof shoes."
	WindAdvice  = "Be cautious of strong winds; secure outdoor items."
	GreatAdvice = "Weather looks great! Enjoy your day."
)

type rule struct {
	applies func(models.DailyForecast) bool
	advice  string
}

// rules are evaluated independently, in this order
var rules = []rule{
	{func(d models.DailyForecast) bool { return d.Temperature > 30 }, HeatAdvice},
	{func(d models.DailyForecast) bool { return d.Temperature < 5 }, ColdAdvice},
	{func(d models.DailyForecast) bool { return strings.Contains(d.Description, "rain") }, RainAdvice},
	{func(d models.DailyForecast) bool { return d.WindSpeed > 20 }, WindAdvice},
}

// Suggestions returns every advisory that applies to day, or a single
// "great weather" message when none does
func Suggestions(day models.DailyForecast) []string {
	var out []string
	for _, r := range rules {
		if r.applies(day) {
			out = append(out, r.advice)
		}
	}

	if len(out) == 0 {
		return []string{GreatAdvice}
	}
	return out
}
