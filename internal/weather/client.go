// Package weather looks up current conditions from OpenWeatherMap.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"
)

var ErrNotConfigured = errors.New("weather API key not configured")

type Report struct {
	Temp        int     `json:"temp"`
	Condition   string  `json:"condition"`
	Icon        string  `json:"icon"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
}

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type currentResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Current returns metric conditions for a city name.
func (c *Client) Current(ctx context.Context, location string) (*Report, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("q", location)
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API error %d: %s", resp.StatusCode, string(body))
	}

	var cur currentResponse
	if err := json.Unmarshal(body, &cur); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if len(cur.Weather) == 0 {
		return nil, errors.New("weather response has no conditions")
	}

	return &Report{
		Temp:        int(math.Round(cur.Main.Temp)),
		Condition:   cur.Weather[0].Main,
		Icon:        cur.Weather[0].Icon,
		Location:    cur.Name,
		Description: cur.Weather[0].Description,
		Humidity:    cur.Main.Humidity,
		WindSpeed:   cur.Wind.Speed,
	}, nil
}
