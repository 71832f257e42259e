package weather

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMeteo struct {
	geocodes atomic.Int32
	forecast string
	status   int
}

func (f *fakeMeteo) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if f.status != 0 {
		w.WriteHeader(f.status)
		return
	}
	switch r.URL.Path {
	case "/v1/search":
		f.geocodes.Add(1)
		if r.URL.Query().Get("name") == "Atlantis" {
			w.Write([]byte(`{}`))
			return
		}
		w.Write([]byte(`{"results":[{"latitude":48.85,"longitude":2.35,"name":"Paris"}]}`))
	case "/v1/forecast":
		w.Write([]byte(f.forecast))
	default:
		http.NotFound(w, r)
	}
}

func newClient(t *testing.T, f *fakeMeteo) *Client {
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return New(Config{HTTPClient: srv.Client(), ForecastURL: srv.URL, GeocodingURL: srv.URL + "/"})
}

func TestCurrentSummary(t *testing.T) {
	f := &fakeMeteo{forecast: `{"current":{"temperature_2m":21.4,"relative_humidity_2m":60,"apparent_temperature":20.9}}`}
	c := newClient(t, f)

	got, err := c.CurrentSummary(context.Background(), "paris")
	require.NoError(t, err)
	assert.Equal(t, "In Paris, it's 21.4°C (feels like 20.9°C) with humidity 60%.", got)

	_, err = c.CurrentSummary(context.Background(), "Paris ")
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.geocodes.Load(), "geocode should be cached")
}

func TestCurrentSummaryKeepsDecimals(t *testing.T) {
	f := &fakeMeteo{forecast: `{"current":{"temperature_2m":5.0,"relative_humidity_2m":81,"apparent_temperature":-0.50}}`}
	c := newClient(t, f)

	got, err := c.CurrentSummary(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, "In Paris, it's 5.0°C (feels like -0.5°C) with humidity 81%.", got)

	f.forecast = `{"current":{"temperature_2m":12,"relative_humidity_2m":null}}`
	got, err = c.CurrentSummary(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, "In Paris, it's 12°C (feels like None°C) with humidity None%.", got)
}

func TestNum(t *testing.T) {
	n := func(s string) *json.Number { v := json.Number(s); return &v }
	assert.Equal(t, "5.0", num(n("5.0")))
	assert.Equal(t, "21.4", num(n("21.40")))
	assert.Equal(t, "60", num(n("60")))
	assert.Equal(t, "150.0", num(n("1.5e2")))
	assert.Equal(t, "None", num(nil))
}

func TestCurrentSummaryUnknownCity(t *testing.T) {
	c := newClient(t, &fakeMeteo{})

	got, err := c.CurrentSummary(context.Background(), "Atlantis")
	require.NoError(t, err)
	assert.Equal(t, "I couldn't find weather for Atlantis.", got)
}

func TestCurrentSummaryMissingTemperature(t *testing.T) {
	c := newClient(t, &fakeMeteo{forecast: `{"current":{}}`})

	got, err := c.CurrentSummary(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, "Weather data for Paris is currently unavailable.", got)
}

func TestCurrentSummaryHTTPError(t *testing.T) {
	c := newClient(t, &fakeMeteo{status: http.StatusBadGateway})

	_, err := c.CurrentSummary(context.Background(), "Paris")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
