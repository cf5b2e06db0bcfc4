package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"time"
)

// client walks the WeatherWise API the way the web front end does, keeping
// the session cookie between calls
type client struct {
	baseURL string
	http    *http.Client
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the WeatherWise API")
	city := flag.String("city", "Paris", "City to search for")
	flag.Parse()

	fmt.Println("WeatherWise API Client Example")
	fmt.Println("==============================")

	jar, err := cookiejar.New(nil)
	if err != nil {
		fmt.Printf("Error creating cookie jar: %v\n", err)
		os.Exit(1)
	}

	c := &client{
		baseURL: *baseURL,
		http:    &http.Client{Jar: jar, Timeout: 15 * time.Second},
	}

	steps := []struct {
		title  string
		method string
		path   string
		body   interface{}
	}{
		{"Health", http.MethodGet, "/api/health", nil},
		{"Device date", http.MethodGet, "/api/clock", nil},
		{"Location denied on the Today page", http.MethodPost, "/api/today/locate", map[string]string{"error": "denied"}},
		{"Suggestions for " + *city, http.MethodGet, "/api/suggestions?q=" + url.QueryEscape(*city), nil},
		{"Today's weather in " + *city, http.MethodPost, "/api/search", map[string]string{"query": *city, "page": "today"}},
		{"Five day forecast for the default city", http.MethodGet, "/api/forecast", nil},
		{"Five day forecast for " + *city, http.MethodPost, "/api/forecast/search", map[string]string{"city": *city}},
		{"Details for tomorrow", http.MethodPost, "/api/forecast/days/1", nil},
		{"Close the details", http.MethodDelete, "/api/forecast/modal", nil},
		{"About", http.MethodGet, "/api/about", nil},
	}

	for _, step := range steps {
		fmt.Printf("\n%s...\n", step.title)

		status, data, err := c.call(step.method, step.path, step.body)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		prettyJSON, _ := json.MarshalIndent(data, "", "  ")
		fmt.Printf("HTTP %d\n%s\n", status, string(prettyJSON))
	}
}

func (c *client) call(method, path string, body interface{}) (int, map[string]interface{}, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return resp.StatusCode, data, nil
}
