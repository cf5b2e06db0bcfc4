package openweathermap

import (
	"context"
	"net/url"

	"weatherwise/models"
)

// FetchForecast gets the 5 day / 3 hour forecast for a city. Samples are
// returned in provider order, which is chronological.
func (c *Client) FetchForecast(ctx context.Context, city string) (models.ForecastResponse, error) {
	params := url.Values{}
	params.Add("q", city)
	params.Add("units", c.units)

	var response models.ForecastResponse
	if err := c.get(ctx, c.baseURL+"/forecast", params, &response); err != nil {
		return models.ForecastResponse{}, err
	}

	c.log.Debugf("Forecast for %s: %d samples", city, len(response.List))
	return response, nil
}
