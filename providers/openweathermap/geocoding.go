package openweathermap

import (
	"context"
	"net/url"
	"strconv"

	"weatherwise/models"
)

// Direct resolves a free text place name into at most limit candidates
func (c *Client) Direct(ctx context.Context, query string, limit int) ([]models.GeoLocation, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("limit", strconv.Itoa(limit))

	var response []models.GeoLocation
	if err := c.get(ctx, c.geoURL+"/direct", params, &response); err != nil {
		return nil, err
	}
	return response, nil
}
