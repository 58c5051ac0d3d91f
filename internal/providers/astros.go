package providers

import (
	"context"
	"net/http"
)

// Astronaut is one person currently in space.
type Astronaut struct {
	Name  string
	Craft string
}

// Roster is the people-in-space roster, in the order the source reports it.
type Roster struct {
	Number int
	People []Astronaut
}

// Astros fetches the open-notify people-in-space roster.
type Astros struct {
	client *http.Client

	URL string
}

func NewAstros(client *http.Client) *Astros {
	return &Astros{
		client: client,
		URL:    "http://api.open-notify.org/astros.json",
	}
}

func (p *Astros) Name() string { return "astros" }

type astrosResponse struct {
	Message string `json:"message"`
	Number  int    `json:"number"`
	People  []struct {
		Name  string `json:"name"`
		Craft string `json:"craft"`
	} `json:"people"`
}

func (p *Astros) Fetch(ctx context.Context, _ []string) (any, error) {
	var resp astrosResponse
	if err := fetchJSON(ctx, p.client, p.Name(), p.URL, &resp); err != nil {
		return nil, err
	}
	if resp.Message != "success" {
		return nil, semanticErr(p.Name(), "roster lookup returned message %q", resp.Message)
	}

	roster := &Roster{Number: resp.Number, People: make([]Astronaut, 0, len(resp.People))}
	for _, person := range resp.People {
		roster.People = append(roster.People, Astronaut{Name: person.Name, Craft: person.Craft})
	}
	return roster, nil
}
