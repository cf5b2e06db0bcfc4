package openweathermap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weatherwise/datasource"
	"weatherwise/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Options{
		APIKey:  "test-key",
		BaseURL: server.URL + "/data/2.5",
		GeoURL:  server.URL + "/geo/1.0",
	}, logger.Discard())
}

func TestClient_CurrentByCity(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "Calgary, Alberta, CA", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name": "Calgary",
			"sys":  map[string]interface{}{"country": "CA"},
			"main": map[string]interface{}{
				"temp":       -3.5,
				"feels_like": -8.1,
				"pressure":   1018,
				"humidity":   70,
			},
			"weather":    []map[string]interface{}{{"description": "light snow", "icon": "13d"}},
			"wind":       map[string]interface{}{"speed": 4.6, "gust": 9.2},
			"visibility": 8000,
			"clouds":     map[string]interface{}{"all": 90},
			"timezone":   -21600,
		})
	})

	conditions, err := client.CurrentByCity(context.Background(), "Calgary, Alberta, CA")
	require.NoError(t, err)

	assert.Equal(t, "Calgary", conditions.Name)
	assert.Equal(t, "CA", conditions.Sys.Country)
	assert.Equal(t, -3.5, conditions.Main.Temp)
	assert.Equal(t, -8.1, conditions.Main.FeelsLike)
	assert.Equal(t, 70, conditions.Main.Humidity)
	assert.Equal(t, 9.2, conditions.Wind.Gust)
	assert.Equal(t, 8000, conditions.Visibility)
	assert.Equal(t, 90, conditions.Clouds.All)
	assert.Equal(t, -21600, conditions.Timezone)
	require.Len(t, conditions.Weather, 1)
	assert.Equal(t, "13d", conditions.Weather[0].Icon)
}

func TestClient_CurrentByCoords(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "51.0447", r.URL.Query().Get("lat"))
		assert.Equal(t, "-114.0719", r.URL.Query().Get("lon"))
		assert.Empty(t, r.URL.Query().Get("q"))

		w.Write([]byte(`{"name":"Calgary","sys":{"country":"CA"},"main":{"temp":1}}`))
	})

	conditions, err := client.CurrentByCoords(context.Background(), 51.0447, -114.0719)
	require.NoError(t, err)
	assert.Equal(t, "Calgary", conditions.Name)
}

func TestClient_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	})

	_, err := client.CurrentByCity(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.True(t, datasource.IsNotFound(err))

	var apiErr *datasource.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "city not found", apiErr.Message)
}

func TestClient_UnauthorizedNumericCod(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"cod":401,"message":"Invalid API key."}`))
	})

	_, err := client.FetchForecast(context.Background(), "Calgary")

	var apiErr *datasource.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid API key.", apiErr.Message)
	assert.False(t, datasource.IsNotFound(err))
}

func TestClient_InvalidJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("invalid json"))
	})

	_, err := client.CurrentByCity(context.Background(), "Calgary")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse response")
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client := NewClient(Options{APIKey: "k", BaseURL: baseURL, GeoURL: baseURL}, logger.Discard())

	_, err := client.CurrentByCity(context.Background(), "Calgary")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute request")
}

func TestClient_FetchForecast(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/forecast", r.URL.Path)
		assert.Equal(t, "Calgary", r.URL.Query().Get("q"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))

		w.Write([]byte(`{
			"city": {"name": "Calgary", "country": "CA"},
			"list": [
				{"dt": 1760864400, "dt_txt": "2025-10-19 09:00:00", "main": {"temp": 4.2, "humidity": 80, "pressure": 1012},
				 "weather": [{"description": "light rain", "icon": "10d"}], "wind": {"speed": 3.1}, "visibility": 10000},
				{"dt": 1760875200, "dt_txt": "2025-10-19 12:00:00", "main": {"temp": 6.0}}
			]
		}`))
	})

	forecast, err := client.FetchForecast(context.Background(), "Calgary")
	require.NoError(t, err)

	assert.Equal(t, "Calgary", forecast.City.Name)
	require.Len(t, forecast.List, 2)
	assert.Equal(t, "2025-10-19 09:00:00", forecast.List[0].DtTxt)
	assert.Equal(t, 4.2, forecast.List[0].Main.Temp)
	assert.Equal(t, 10000, forecast.List[0].Visibility)
	assert.Equal(t, "light rain", forecast.List[0].Weather[0].Description)
}

func TestClient_Direct(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geo/1.0/direct", r.URL.Path)
		assert.Equal(t, "Par", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Empty(t, r.URL.Query().Get("units"))

		w.Write([]byte(`[
			{"name": "Paris", "country": "FR", "lat": 48.85, "lon": 2.35},
			{"name": "Paris", "state": "Texas", "country": "US", "lat": 33.66, "lon": -95.55}
		]`))
	})

	results, err := client.Direct(context.Background(), "Par", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "", results[0].State)
	assert.Equal(t, "Texas", results[1].State)
	assert.Equal(t, "US", results[1].Country)
}

func TestClient_Name(t *testing.T) {
	assert.Equal(t, "OpenWeatherMap", NewClient(Options{}, logger.Discard()).Name())
}
