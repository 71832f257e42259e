// Package weather summarizes current conditions from open-meteo.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	DefaultForecastURL  = "https://api.open-meteo.com"
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com"

	geocodeCacheSize = 128
)

type Config struct {
	HTTPClient   *http.Client
	ForecastURL  string
	GeocodingURL string
}

type Client struct {
	http         *http.Client
	forecastURL  string
	geocodingURL string
	places       *lru.Cache[string, place]
}

type place struct {
	Lat, Lon float64
	Name     string
	Found    bool
}

func New(cfg Config) *Client {
	c := &Client{
		http:         cfg.HTTPClient,
		forecastURL:  strings.TrimRight(cfg.ForecastURL, "/"),
		geocodingURL: strings.TrimRight(cfg.GeocodingURL, "/"),
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 10 * time.Second}
	}
	if c.forecastURL == "" {
		c.forecastURL = DefaultForecastURL
	}
	if c.geocodingURL == "" {
		c.geocodingURL = DefaultGeocodingURL
	}
	// lru.New only fails on a non-positive size.
	c.places, _ = lru.New[string, place](geocodeCacheSize)
	return c
}

// CurrentSummary describes the current temperature and humidity in city.
// Unknown cities and missing readings are reported in the returned text;
// transport failures come back as errors.
func (c *Client) CurrentSummary(ctx context.Context, city string) (string, error) {
	p, err := c.geocode(ctx, city)
	if err != nil {
		return "", err
	}
	if !p.Found {
		return fmt.Sprintf("I couldn't find weather for %s.", city), nil
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(p.Lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(p.Lon, 'f', 4, 64))
	q.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature")

	var result struct {
		Current struct {
			Temperature  *json.Number `json:"temperature_2m"`
			Humidity     *json.Number `json:"relative_humidity_2m"`
			ApparentTemp *json.Number `json:"apparent_temperature"`
		} `json:"current"`
	}
	if err := c.getJSON(ctx, c.forecastURL+"/v1/forecast?"+q.Encode(), &result); err != nil {
		return "", fmt.Errorf("forecast: %w", err)
	}

	cur := result.Current
	if cur.Temperature == nil {
		return fmt.Sprintf("Weather data for %s is currently unavailable.", p.Name), nil
	}
	return fmt.Sprintf("In %s, it's %s°C (feels like %s°C) with humidity %s%%.",
		p.Name, num(cur.Temperature), num(cur.ApparentTemp), num(cur.Humidity)), nil
}

func (c *Client) geocode(ctx context.Context, city string) (place, error) {
	key := strings.ToLower(strings.TrimSpace(city))
	if p, ok := c.places.Get(key); ok {
		return p, nil
	}

	q := url.Values{}
	q.Set("name", city)
	q.Set("count", "1")

	var result struct {
		Results []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Name      string  `json:"name"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, c.geocodingURL+"/v1/search?"+q.Encode(), &result); err != nil {
		return place{}, fmt.Errorf("geocode %q: %w", city, err)
	}

	p := place{}
	if len(result.Results) > 0 {
		r := result.Results[0]
		p = place{Lat: r.Latitude, Lon: r.Longitude, Name: r.Name, Found: true}
		if p.Name == "" {
			p.Name = city
		}
	}
	c.places.Add(key, p)
	return p, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// num prints a reading the way the service sent it: integers stay
// integers, fractional values keep at least one decimal ("5.0", "21.4").
// A missing reading prints as "None".
func num(v *json.Number) string {
	if v == nil {
		return "None"
	}
	lit := v.String()
	if !strings.ContainsAny(lit, ".eE") {
		if n, err := v.Int64(); err == nil {
			return strconv.FormatInt(n, 10)
		}
	}
	f, err := v.Float64()
	if err != nil {
		return lit
	}
	out := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}
