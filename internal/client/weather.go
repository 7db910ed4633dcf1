package client

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/jonesrussell/incident-insight/internal/config"
	"github.com/jonesrussell/incident-insight/internal/logger"
)

// TomorrowWeather is the forecast summary for one city.
type TomorrowWeather struct {
	City           string `json:"city"`
	Date           string `json:"date"`
	MinTempCelsius int    `json:"min_temp_celsius"`
	MaxTempCelsius int    `json:"max_temp_celsius"`
}

// WeatherClient talks to the OpenWeatherMap geocoding and forecast APIs.
type WeatherClient struct {
	log     logger.Logger
	client  *http.Client
	baseURL string
	apiKey  string
	country string
	now     func() time.Time
}

// NewWeatherClient creates a weather client from config.
func NewWeatherClient(cfg config.WeatherConfig, log logger.Logger) *WeatherClient {
	if log == nil {
		log = logger.NewNop()
	}
	return &WeatherClient{
		log:     log,
		client:  NewHTTPClient(&TransportConfig{Timeout: cfg.Timeout}),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		country: cfg.CountryCode,
		now:     time.Now,
	}
}

type geoResult struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
	} `json:"list"`
}

// Coordinates resolves a city name to latitude and longitude.
func (c *WeatherClient) Coordinates(ctx context.Context, city string) (float64, float64, error) {
	endpoint := fmt.Sprintf("%s/geo/1.0/direct?q=%s&limit=1&appid=%s",
		c.baseURL,
		url.QueryEscape(city+","+c.country),
		url.QueryEscape(c.apiKey),
	)

	results, err := fetchJSON[[]geoResult](ctx, c.client, endpoint, "geocoding")
	if err != nil {
		return 0, 0, err
	}
	if len(*results) == 0 {
		return 0, 0, fmt.Errorf("coordinates for city %q not found", city)
	}

	return (*results)[0].Lat, (*results)[0].Lon, nil
}

// TomorrowForecast returns tomorrow's min and max temperature for a city,
// derived from the 5 day / 3 hour forecast.
func (c *WeatherClient) TomorrowForecast(ctx context.Context, city string) (*TomorrowWeather, error) {
	lat, lon, err := c.Coordinates(ctx, city)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/data/2.5/forecast?lat=%g&lon=%g&appid=%s&units=metric&lang=cz",
		c.baseURL, lat, lon, url.QueryEscape(c.apiKey))

	forecast, err := fetchJSON[forecastResponse](ctx, c.client, endpoint, "forecast")
	if err != nil {
		return nil, err
	}

	tomorrow := c.now().AddDate(0, 0, 1)
	var temps []float64
	for _, item := range forecast.List {
		ts := time.Unix(item.Dt, 0)
		if sameDay(ts, tomorrow) {
			temps = append(temps, item.Main.Temp)
		}
	}
	if len(temps) == 0 {
		return nil, fmt.Errorf("no forecast entries for tomorrow in city %q", city)
	}

	minTemp, maxTemp := temps[0], temps[0]
	for _, t := range temps[1:] {
		if t < minTemp {
			minTemp = t
		}
		if t > maxTemp {
			maxTemp = t
		}
	}

	c.log.Debug("Forecast resolved",
		logger.String("city", city),
		logger.Int("intervals", len(temps)),
	)

	return &TomorrowWeather{
		City:           city,
		Date:           tomorrow.Format("02.01.2006"),
		MinTempCelsius: int(math.Round(minTemp)),
		MaxTempCelsius: int(math.Round(maxTemp)),
	}, nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
