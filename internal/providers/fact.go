package providers

import (
	"context"
	"net/http"
)

// FactResult is one random trivia fact.
type FactResult struct {
	Text      string
	Source    string
	SourceURL string
}

// Fact fetches a random fact from the uselessfacts API.
type Fact struct {
	client *http.Client

	URL string
}

func NewFact(client *http.Client) *Fact {
	return &Fact{
		client: client,
		URL:    "https://uselessfacts.jsph.pl/api/v2/facts/random",
	}
}

func (p *Fact) Name() string { return "fact" }

type factResponse struct {
	Text      string `json:"text"`
	Source    string `json:"source"`
	SourceURL string `json:"source_url"`
}

func (p *Fact) Fetch(ctx context.Context, _ []string) (any, error) {
	var resp factResponse
	if err := fetchJSON(ctx, p.client, p.Name(), p.URL, &resp); err != nil {
		return nil, err
	}
	if resp.Text == "" {
		return nil, semanticErr(p.Name(), "fact response has no text")
	}
	return &FactResult{Text: resp.Text, Source: resp.Source, SourceURL: resp.SourceURL}, nil
}
