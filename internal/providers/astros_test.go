package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"webexbot/internal/domain"
)

func TestAstros_RosterInInputOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"success","number":3,"people":[{"name":"A","craft":"ISS"},{"name":"B","craft":"ISS"},{"name":"C","craft":"Shenzhou"}]}`))
	}))
	defer srv.Close()

	p := NewAstros(http.DefaultClient)
	p.URL = srv.URL

	payload, err := p.Fetch(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	roster := payload.(*Roster)
	if roster.Number != 3 {
		t.Errorf("expected 3, got %d", roster.Number)
	}
	want := []Astronaut{{"A", "ISS"}, {"B", "ISS"}, {"C", "Shenzhou"}}
	if len(roster.People) != len(want) {
		t.Fatalf("expected %d people, got %d", len(want), len(roster.People))
	}
	for i, person := range want {
		if roster.People[i] != person {
			t.Errorf("people[%d] = %+v, want %+v", i, roster.People[i], person)
		}
	}
}

func TestAstros_MissingSuccessSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"maintenance","number":0,"people":[]}`))
	}))
	defer srv.Close()

	p := NewAstros(http.DefaultClient)
	p.URL = srv.URL

	_, err := p.Fetch(context.Background(), nil)
	var perr *domain.ProviderError
	if !errors.As(err, &perr) || perr.Kind != domain.KindSemantic {
		t.Fatalf("expected semantic failure, got %v", err)
	}
}

func TestFact_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"Honey never spoils.","source":"djtech.net","source_url":"http://example.com"}`))
	}))
	defer srv.Close()

	p := NewFact(http.DefaultClient)
	p.URL = srv.URL

	payload, err := p.Fetch(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fact := payload.(*FactResult)
	if fact.Text != "Honey never spoils." || fact.SourceURL != "http://example.com" {
		t.Errorf("unexpected fact: %+v", fact)
	}
}

func TestFact_EmptyTextIsSemanticFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"source":"x"}`))
	}))
	defer srv.Close()

	p := NewFact(http.DefaultClient)
	p.URL = srv.URL

	_, err := p.Fetch(context.Background(), nil)
	var perr *domain.ProviderError
	if !errors.As(err, &perr) || perr.Kind != domain.KindSemantic {
		t.Fatalf("expected semantic failure, got %v", err)
	}
}

func TestAPOD_SendsAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "my-key" {
			t.Errorf("expected api_key=my-key, got %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"title":"Pillars","date":"2024-03-12","explanation":"dust","url":"https://apod.nasa.gov/x.jpg"}`))
	}))
	defer srv.Close()

	p := NewAPOD(http.DefaultClient, "my-key")
	p.URL = srv.URL

	payload, err := p.Fetch(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pic := payload.(*Picture)
	if pic.Title != "Pillars" || pic.URL != "https://apod.nasa.gov/x.jpg" {
		t.Errorf("unexpected picture: %+v", pic)
	}
}
