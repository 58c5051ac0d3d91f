package providers

import (
	"context"
	"net/http"
	"net/url"
)

// Picture is NASA's astronomy picture of the day.
type Picture struct {
	Title       string
	Date        string
	Explanation string
	URL         string
}

// APOD fetches the NASA picture-of-the-day.
type APOD struct {
	client *http.Client
	apiKey string

	URL string
}

func NewAPOD(client *http.Client, apiKey string) *APOD {
	if apiKey == "" {
		apiKey = "DEMO_KEY"
	}
	return &APOD{
		client: client,
		apiKey: apiKey,
		URL:    "https://api.nasa.gov/planetary/apod",
	}
}

func (p *APOD) Name() string { return "nasa" }

type apodResponse struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Explanation string `json:"explanation"`
	URL         string `json:"url"`
}

func (p *APOD) Fetch(ctx context.Context, _ []string) (any, error) {
	q := url.Values{}
	q.Set("api_key", p.apiKey)

	var resp apodResponse
	if err := fetchJSON(ctx, p.client, p.Name(), p.URL+"?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Title == "" && resp.URL == "" {
		return nil, semanticErr(p.Name(), "picture response missing title and url")
	}
	return &Picture{Title: resp.Title, Date: resp.Date, Explanation: resp.Explanation, URL: resp.URL}, nil
}
