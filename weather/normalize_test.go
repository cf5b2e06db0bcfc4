package weather

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weatherwise/models"
)

func sample(dtTxt string, temp float64, description string) models.ForecastSample {
	var s models.ForecastSample
	s.DtTxt = dtTxt
	s.Main.Temp = temp
	s.Main.Humidity = 55
	s.Main.Pressure = 1013
	s.Wind.Speed = 3.5
	s.Visibility = 10000
	s.Weather = []models.Condition{{Description: description, Icon: "01d"}}
	return s
}

func TestDailyForecasts_FirstSampleOfEachDay(t *testing.T) {
	samples := []models.ForecastSample{
		sample("2026-10-19 18:00:00", 12.5, "clear sky"),
		sample("2026-10-19 21:00:00", 9.0, "few clouds"),
		sample("2026-10-20 00:00:00", 7.1, "light rain"),
		sample("2026-10-20 03:00:00", 6.4, "moderate rain"),
	}

	days := DailyForecasts(samples)
	require.Len(t, days, 2)

	assert.Equal(t, models.DailyForecast{
		Date:         "2026-10-19",
		Temperature:  12.5,
		Description:  "clear sky",
		Icon:         "01d",
		WindSpeed:    3.5,
		Humidity:     55,
		Pressure:     1013,
		VisibilityKm: 10,
	}, days[0])
	assert.Equal(t, "2026-10-20", days[1].Date)
	assert.Equal(t, 7.1, days[1].Temperature)
	assert.Equal(t, "light rain", days[1].Description)
}

func TestDailyForecasts_CapsAtFiveDays(t *testing.T) {
	var samples []models.ForecastSample
	start := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 6*8; i++ {
		ts := start.Add(time.Duration(i) * 3 * time.Hour)
		samples = append(samples, sample(ts.Format("2006-01-02 15:04:05"), float64(i), "clear sky"))
	}

	days := DailyForecasts(samples)
	require.Len(t, days, MaxForecastDays)
	assert.Equal(t, "2026-10-19", days[0].Date)
	assert.Equal(t, "2026-10-23", days[4].Date)
	assert.Equal(t, float64(32), days[4].Temperature)
}

func TestDailyForecasts_NoSorting(t *testing.T) {
	samples := []models.ForecastSample{
		sample("2026-10-21 00:00:00", 1, "a"),
		sample("2026-10-19 00:00:00", 2, "b"),
		sample("2026-10-21 03:00:00", 3, "c"),
	}

	days := DailyForecasts(samples)
	require.Len(t, days, 2)
	assert.Equal(t, "2026-10-21", days[0].Date)
	assert.Equal(t, float64(1), days[0].Temperature)
	assert.Equal(t, "2026-10-19", days[1].Date)
}

func TestDailyForecasts_Empty(t *testing.T) {
	assert.Empty(t, DailyForecasts(nil))
	assert.NotNil(t, DailyForecasts(nil))
}

func TestDailyForecasts_MissingFields(t *testing.T) {
	var s models.ForecastSample
	s.Dt = time.Date(2026, 10, 19, 22, 0, 0, 0, time.UTC).Unix()

	days := DailyForecasts([]models.ForecastSample{s})
	require.Len(t, days, 1)
	assert.Equal(t, "2026-10-19", days[0].Date)
	assert.Empty(t, days[0].Description)
	assert.Empty(t, days[0].Icon)
}

// Randomized check over arbitrary sample lists: at most five records, each
// date once, in first-encountered order, each taken from the first sample of
// its date.
func TestDailyForecasts_Properties(t *testing.T) {
	faker := gofakeit.New(42)

	for run := 0; run < 200; run++ {
		t.Run(fmt.Sprintf("run-%d", run), func(t *testing.T) {
			dates := faker.IntRange(0, 9)
			var samples []models.ForecastSample
			for i := 0; i < dates; i++ {
				date := fmt.Sprintf("2026-%02d-%02d", faker.IntRange(1, 12), faker.IntRange(1, 28))
				for j := faker.IntRange(1, 8); j > 0; j-- {
					hour := faker.IntRange(0, 23)
					samples = append(samples, sample(
						fmt.Sprintf("%s %02d:00:00", date, hour),
						faker.Float64Range(-30, 45),
						faker.Word(),
					))
				}
			}

			var expectedDates []string
			firstByDate := map[string]models.ForecastSample{}
			for _, s := range samples {
				date, _, _ := strings.Cut(s.DtTxt, " ")
				if _, ok := firstByDate[date]; ok {
					continue
				}
				firstByDate[date] = s
				expectedDates = append(expectedDates, date)
			}
			if len(expectedDates) > MaxForecastDays {
				expectedDates = expectedDates[:MaxForecastDays]
			}

			days := DailyForecasts(samples)
			require.Len(t, days, len(expectedDates))

			for i, day := range days {
				assert.Equal(t, expectedDates[i], day.Date)
				assert.Equal(t, firstByDate[day.Date].Main.Temp, day.Temperature)
				assert.Equal(t, firstByDate[day.Date].Weather[0].Description, day.Description)
			}
		})
	}
}
