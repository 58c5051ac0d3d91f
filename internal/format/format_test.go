package format

import (
	"strings"
	"testing"

	"webexbot/internal/domain"
	"webexbot/internal/providers"
)

func TestRosterReply(t *testing.T) {
	f := New(0)
	roster := &providers.Roster{
		Number: 3,
		People: []providers.Astronaut{
			{Name: "A", Craft: "ISS"},
			{Name: "B", Craft: "ISS"},
			{Name: "C", Craft: "Shenzhou"},
		},
	}

	text, _ := f.Reply(roster)
	want := "There are currently 3 human(s) in space:\n- A (ISS)\n- B (ISS)\n- C (Shenzhou)"
	if text != want {
		t.Errorf("roster reply mismatch:\ngot:  %q\nwant: %q", text, want)
	}
}

func TestRosterReply_Empty(t *testing.T) {
	f := New(0)
	text, _ := f.Reply(&providers.Roster{Number: 0})
	if !strings.Contains(text, "no humans in space") {
		t.Errorf("expected empty-roster sentence, got %q", text)
	}
}

func TestISSReply_WithPlace(t *testing.T) {
	f := New(0)
	pos := &providers.ISSPosition{
		Latitude:  47.49168,
		Longitude: -37.36431,
		Timestamp: 1710202564, // Tue Mar 12 00:16:04 2024 UTC
		Place:     &providers.Place{Name: "Mobert Creek", Country: "Canada"},
	}

	text, format := f.Reply(pos)
	if format != domain.FormatText {
		t.Errorf("expected text format, got %q", format)
	}
	if !strings.Contains(text, "Mobert Creek, Canada") {
		t.Errorf("expected place name, got %q", text)
	}
	if !strings.Contains(text, "(47.4917°, -37.3643°)") {
		t.Errorf("coordinates must render to exactly 4 decimals, got %q", text)
	}
	if !strings.Contains(text, "Tue Mar 12 00:16:04 2024 (GMT)") {
		t.Errorf("expected UTC timestamp, got %q", text)
	}
}

func TestISSReply_NoHitsCoordinatesOnly(t *testing.T) {
	f := New(0)
	pos := &providers.ISSPosition{
		Latitude:  -12.3456789,
		Longitude: 98.7654321,
		Timestamp: 1710202564,
	}

	text, _ := f.Reply(pos)
	if !strings.Contains(text, "body of water or unpopulated area") {
		t.Errorf("expected coordinates-only sentence, got %q", text)
	}
	if !strings.Contains(text, "latitude -12.3457°") || !strings.Contains(text, "longitude 98.7654°") {
		t.Errorf("coordinates must render to exactly 4 decimals, got %q", text)
	}
	if strings.Contains(text, ",  ") || strings.Contains(text, "flying over ,") {
		t.Errorf("no place fragment expected, got %q", text)
	}
}

func TestFactReply(t *testing.T) {
	f := New(0)
	text, format := f.Reply(&providers.FactResult{
		Text:      "Honey never spoils.",
		Source:    "djtech.net",
		SourceURL: "http://www.djtech.net/humor/useless_facts.htm",
	})
	if format != domain.FormatMarkdown {
		t.Errorf("expected markdown, got %q", format)
	}
	if !strings.Contains(text, "Honey never spoils.") {
		t.Errorf("missing fact text: %q", text)
	}
	if !strings.Contains(text, "[djtech.net](http://www.djtech.net/humor/useless_facts.htm)") {
		t.Errorf("missing source link: %q", text)
	}
}

func TestFactReply_NoSourceURL(t *testing.T) {
	f := New(0)
	text, _ := f.Reply(&providers.FactResult{Text: "Bananas are berries."})
	if strings.Contains(text, "Source:") {
		t.Errorf("no source line expected without a URL, got %q", text)
	}
}

func TestPictureReply_TruncatesExplanation(t *testing.T) {
	f := New(40)
	text, _ := f.Reply(&providers.Picture{
		Title:       "Pillars of Creation",
		Date:        "2024-03-12",
		URL:         "https://apod.nasa.gov/image.jpg",
		Explanation: "These towering tendrils of cosmic dust and gas sit at the heart of the Eagle Nebula.",
	})
	if !strings.Contains(text, "…") {
		t.Errorf("expected ellipsis on truncated explanation, got %q", text)
	}
	if strings.Contains(text, "Eagle Nebula") {
		t.Errorf("explanation should have been truncated, got %q", text)
	}
}

func TestWeatherReply(t *testing.T) {
	f := New(0)
	text, _ := f.Reply(&providers.Weather{
		Latitude:    48.85,
		Longitude:   2.35,
		Temperature: 13.5,
		Unit:        "°C",
		Wind:        "4.2 m/s",
		Period:      "2024-03-12T00:00",
	})
	if !strings.Contains(text, "`48.8500, 2.3500`") {
		t.Errorf("coordinates must render to 4 decimals, got %q", text)
	}
	if !strings.Contains(text, "13.5°C") {
		t.Errorf("missing temperature, got %q", text)
	}
}

func TestApology_NamesProviderOnly(t *testing.T) {
	f := New(0)
	text := f.Apology("nasa")
	if !strings.Contains(text, "NASA picture of the day") {
		t.Errorf("apology must name the provider, got %q", text)
	}
	if strings.Contains(text, "HTTP") || strings.Contains(text, "status") {
		t.Errorf("apology must not leak transport detail, got %q", text)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"one two three four", 9, "one two…"},
		{"nospacesatallhere", 8, "nospaces…"},
	}
	for _, tc := range cases {
		if got := Truncate(tc.in, tc.max); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}
