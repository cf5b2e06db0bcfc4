package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"weatherwise/datasource"
	"weatherwise/logger"
	"weatherwise/models"
)

// Client talks to the OpenWeatherMap current weather, forecast and
// geocoding endpoints
type Client struct {
	apiKey     string
	baseURL    string
	geoURL     string
	units      string
	httpClient *http.Client
	log        logger.Logger
}

// Ensure Client implements every source the controllers need
var (
	_ datasource.CurrentSource  = (*Client)(nil)
	_ datasource.ForecastSource = (*Client)(nil)
	_ datasource.Geocoder       = (*Client)(nil)
)

// Options configures a Client. Zero values fall back to the public API.
type Options struct {
	APIKey  string
	BaseURL string
	GeoURL  string
	Units   string
	Timeout time.Duration
}

// NewClient creates a new OpenWeatherMap client
func NewClient(opts Options, log logger.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.openweathermap.org/data/2.5"
	}
	if opts.GeoURL == "" {
		opts.GeoURL = "https://api.openweathermap.org/geo/1.0"
	}
	if opts.Units == "" {
		opts.Units = "metric"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	return &Client{
		apiKey:  opts.APIKey,
		baseURL: opts.BaseURL,
		geoURL:  opts.GeoURL,
		units:   opts.Units,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		log: log.WithField("component", "openweathermap"),
	}
}

// Name returns the provider name
func (c *Client) Name() string {
	return "OpenWeatherMap"
}

// CurrentByCity fetches current weather for a city query such as "Paris, FR"
func (c *Client) CurrentByCity(ctx context.Context, city string) (models.CurrentConditions, error) {
	params := url.Values{}
	params.Add("q", city)
	params.Add("units", c.units)

	var response models.CurrentConditions
	if err := c.get(ctx, c.baseURL+"/weather", params, &response); err != nil {
		return models.CurrentConditions{}, err
	}
	return response, nil
}

// CurrentByCoords fetches current weather at a position
func (c *Client) CurrentByCoords(ctx context.Context, lat, lon float64) (models.CurrentConditions, error) {
	params := url.Values{}
	params.Add("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Add("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Add("units", c.units)

	var response models.CurrentConditions
	if err := c.get(ctx, c.baseURL+"/weather", params, &response); err != nil {
		return models.CurrentConditions{}, err
	}
	return response, nil
}

// get performs a GET against endpoint with the api key added, decoding a
// 200 response into out
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	params.Set("appid", c.apiKey)

	// Create request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.log.Debugf("GET %s q=%q", endpoint, params.Get("q"))

	// Execute request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// Read response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Check for error status code
	if resp.StatusCode != http.StatusOK {
		return &datasource.APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// errorMessage extracts the "message" field of a provider error body. The
// provider sends "cod" as either a number or a string, so only the message
// is decoded.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
