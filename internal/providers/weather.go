package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Weather is a normalized current-conditions or next-period forecast,
// whichever source produced it.
type Weather struct {
	Latitude    float64
	Longitude   float64
	Temperature float64
	Unit        string // °C | °F
	Wind        string
	Summary     string // short forecast text, empty for current-conditions sources
	Period      string // forecast period name or observation time
}

const (
	WeatherSourceNWS       = "nws"
	WeatherSourceOpenMeteo = "open-meteo"
)

// WeatherProvider answers /weather <lat> <lon>. The NWS source is a chain:
// point metadata first, then the detailed forecast the metadata references.
// The open-meteo source reads current conditions directly by coordinate.
type WeatherProvider struct {
	client *http.Client
	source string

	NWSBase      string
	OpenMeteoURL string
}

func NewWeather(client *http.Client, source string) *WeatherProvider {
	if source == "" {
		source = WeatherSourceOpenMeteo
	}
	return &WeatherProvider{
		client:       client,
		source:       source,
		NWSBase:      "https://api.weather.gov",
		OpenMeteoURL: "https://api.open-meteo.com/v1/forecast",
	}
}

func (p *WeatherProvider) Name() string { return "weather" }

func (p *WeatherProvider) Fetch(ctx context.Context, args []string) (any, error) {
	if len(args) != 2 {
		return nil, semanticErr(p.Name(), "expected 2 coordinate args, got %d", len(args))
	}
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return nil, semanticErr(p.Name(), "unparseable latitude %q", args[0])
	}
	lon, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return nil, semanticErr(p.Name(), "unparseable longitude %q", args[1])
	}

	if p.source == WeatherSourceNWS {
		return p.fetchNWS(ctx, lat, lon)
	}
	return p.fetchOpenMeteo(ctx, lat, lon)
}

type nwsPointResponse struct {
	Properties struct {
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

type nwsForecastResponse struct {
	Properties struct {
		Periods []struct {
			Name            string `json:"name"`
			Temperature     float64 `json:"temperature"`
			TemperatureUnit string `json:"temperatureUnit"`
			WindSpeed       string `json:"windSpeed"`
			ShortForecast   string `json:"shortForecast"`
		} `json:"periods"`
	} `json:"properties"`
}

func (p *WeatherProvider) fetchNWS(ctx context.Context, lat, lon float64) (any, error) {
	metaURL := fmt.Sprintf("%s/points/%.4f,%.4f", p.NWSBase, lat, lon)

	var point nwsPointResponse
	if err := fetchJSON(ctx, p.client, p.Name(), metaURL, &point); err != nil {
		return nil, err
	}
	if point.Properties.Forecast == "" {
		return nil, semanticErr(p.Name(), "point metadata has no forecast URL")
	}

	var forecast nwsForecastResponse
	if err := fetchJSON(ctx, p.client, p.Name(), point.Properties.Forecast, &forecast); err != nil {
		return nil, err
	}
	periods := forecast.Properties.Periods
	if len(periods) == 0 {
		return nil, semanticErr(p.Name(), "forecast has no periods")
	}

	first := periods[0]
	return &Weather{
		Latitude:    lat,
		Longitude:   lon,
		Temperature: first.Temperature,
		Unit:        "°" + first.TemperatureUnit,
		Wind:        first.WindSpeed,
		Summary:     first.ShortForecast,
		Period:      first.Name,
	}, nil
}

type openMeteoResponse struct {
	CurrentWeather *struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		Time        string  `json:"time"`
	} `json:"current_weather"`
}

func (p *WeatherProvider) fetchOpenMeteo(ctx context.Context, lat, lon float64) (any, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("current_weather", "true")

	var resp openMeteoResponse
	if err := fetchJSON(ctx, p.client, p.Name(), p.OpenMeteoURL+"?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.CurrentWeather == nil {
		return nil, semanticErr(p.Name(), "response has no current_weather block")
	}

	return &Weather{
		Latitude:    lat,
		Longitude:   lon,
		Temperature: resp.CurrentWeather.Temperature,
		Unit:        "°C",
		Wind:        fmt.Sprintf("%g m/s", resp.CurrentWeather.WindSpeed),
		Period:      resp.CurrentWeather.Time,
	}, nil
}
