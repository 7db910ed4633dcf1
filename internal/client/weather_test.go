//nolint:testpackage // tests pin the clock via the unexported now field
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/incident-insight/internal/config"
	"github.com/jonesrussell/incident-insight/internal/logger"
)

func newWeatherTestServer(t *testing.T, forecastBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/geo/1.0/direct", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Hradec Kralove,CZ", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		fmt.Fprint(w, `[{"name":"Hradec Králové","lat":50.2092,"lon":15.8328}]`)
	})
	mux.HandleFunc("/data/2.5/forecast", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.NotEmpty(t, r.URL.Query().Get("lat"))
		fmt.Fprint(w, forecastBody)
	})
	return httptest.NewServer(mux)
}

func weatherClientFor(srv *httptest.Server, now time.Time) *WeatherClient {
	c := NewWeatherClient(config.WeatherConfig{
		APIKey:      "test-key",
		BaseURL:     srv.URL,
		CountryCode: "CZ",
		Timeout:     5 * time.Second,
	}, logger.NewNop())
	c.now = func() time.Time { return now }
	return c
}

func TestWeatherClient_TomorrowForecast(t *testing.T) {
	t.Helper()
	now := time.Date(2025, 11, 27, 9, 0, 0, 0, time.Local)
	tomorrow := now.AddDate(0, 0, 1)
	dayAfter := now.AddDate(0, 0, 2)

	forecast := fmt.Sprintf(`{"list":[
		{"dt":%d,"main":{"temp":1.4}},
		{"dt":%d,"main":{"temp":-2.6}},
		{"dt":%d,"main":{"temp":4.5}},
		{"dt":%d,"main":{"temp":12.0}}
	]}`,
		now.Unix(),
		time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 3, 0, 0, 0, time.Local).Unix(),
		time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 15, 0, 0, 0, time.Local).Unix(),
		dayAfter.Unix(),
	)

	srv := newWeatherTestServer(t, forecast)
	defer srv.Close()

	c := weatherClientFor(srv, now)
	got, err := c.TomorrowForecast(context.Background(), "Hradec Kralove")
	require.NoError(t, err)

	assert.Equal(t, "Hradec Kralove", got.City)
	assert.Equal(t, "28.11.2025", got.Date)
	// Entries outside tomorrow (1.4 today, 12.0 the day after) are ignored;
	// -2.6 rounds away from zero, 4.5 rounds up.
	assert.Equal(t, -3, got.MinTempCelsius)
	assert.Equal(t, 5, got.MaxTempCelsius)
}

func TestWeatherClient_TomorrowForecast_NoEntriesForTomorrow(t *testing.T) {
	t.Helper()
	now := time.Date(2025, 11, 27, 9, 0, 0, 0, time.Local)
	forecast := fmt.Sprintf(`{"list":[{"dt":%d,"main":{"temp":1.0}}]}`, now.Unix())

	srv := newWeatherTestServer(t, forecast)
	defer srv.Close()

	c := weatherClientFor(srv, now)
	_, err := c.TomorrowForecast(context.Background(), "Hradec Kralove")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no forecast entries")
}

func TestWeatherClient_Coordinates_CityNotFound(t *testing.T) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/geo/1.0/direct", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := weatherClientFor(srv, time.Now())
	_, _, err := c.Coordinates(context.Background(), "Nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestWeatherClient_Coordinates_UpstreamError(t *testing.T) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/geo/1.0/direct", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"cod":401,"message":"Invalid API key"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := weatherClientFor(srv, time.Now())
	_, _, err := c.Coordinates(context.Background(), "Praha")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
