// Package format renders provider payloads and failures into the text
// posted back to the room. Pure: no I/O, no state beyond configuration.
package format

import (
	"fmt"
	"strings"
	"time"

	"webexbot/internal/domain"
	"webexbot/internal/providers"
)

// Formatter applies the per-command reply templates.
type Formatter struct {
	maxTextLen int
}

func New(maxTextLen int) *Formatter {
	if maxTextLen <= 0 {
		maxTextLen = 700
	}
	return &Formatter{maxTextLen: maxTextLen}
}

// Reply renders a successful provider payload. The second return value is
// the outbound format, text or markdown.
func (f *Formatter) Reply(payload any) (string, string) {
	switch p := payload.(type) {
	case *providers.ISSPosition:
		return f.issReply(p), domain.FormatText
	case *providers.Roster:
		return f.rosterReply(p), domain.FormatText
	case *providers.FactResult:
		return f.factReply(p), domain.FormatMarkdown
	case *providers.Picture:
		return f.pictureReply(p), domain.FormatMarkdown
	case *providers.Weather:
		return f.weatherReply(p), domain.FormatMarkdown
	default:
		return fmt.Sprintf("%v", payload), domain.FormatText
	}
}

// Apology is the fixed failure reply. It names the provider and nothing
// else; transport details stay in the logs.
func (f *Formatter) Apology(provider string) string {
	name := providerDisplayName(provider)
	return fmt.Sprintf("⚠️ Sorry! I couldn't retrieve %s data right now. Please try again later.", name)
}

func providerDisplayName(provider string) string {
	switch provider {
	case "iss":
		return "ISS position"
	case "astros":
		return "astronaut"
	case "fact":
		return "fact"
	case "nasa":
		return "NASA picture of the day"
	case "weather":
		return "weather"
	default:
		return provider
	}
}

func (f *Formatter) issReply(p *providers.ISSPosition) string {
	when := epochUTC(p.Timestamp)
	if p.Place == nil {
		return fmt.Sprintf(
			"On %s (GMT), the ISS was flying over a body of water or unpopulated area at latitude %.4f° and longitude %.4f°.",
			when, p.Latitude, p.Longitude,
		)
	}
	return fmt.Sprintf(
		"On %s (GMT), the ISS was flying over %s, %s. (%.4f°, %.4f°)",
		when, p.Place.Name, p.Place.Country, p.Latitude, p.Longitude,
	)
}

func (f *Formatter) rosterReply(p *providers.Roster) string {
	if p.Number == 0 || len(p.People) == 0 {
		return "According to Open Notify, there are currently no humans in space. 🌍"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "There are currently %d human(s) in space:", p.Number)
	for _, person := range p.People {
		fmt.Fprintf(&sb, "\n- %s (%s)", person.Name, person.Craft)
	}
	return sb.String()
}

func (f *Formatter) factReply(p *providers.FactResult) string {
	text := Truncate(p.Text, f.maxTextLen)
	if p.SourceURL != "" {
		return fmt.Sprintf("🧠 **Random Useless Fact**\n\n%s\n\n_Source: [%s](%s)_", text, p.Source, p.SourceURL)
	}
	return fmt.Sprintf("🧠 **Random Useless Fact**\n\n%s", text)
}

func (f *Formatter) pictureReply(p *providers.Picture) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**NASA APOD:** %s", p.Title)
	if p.Date != "" {
		fmt.Fprintf(&sb, " (%s)", p.Date)
	}
	if p.URL != "" {
		fmt.Fprintf(&sb, "\n%s", p.URL)
	}
	if p.Explanation != "" {
		fmt.Fprintf(&sb, "\n\n%s", Truncate(p.Explanation, f.maxTextLen))
	}
	return sb.String()
}

func (f *Formatter) weatherReply(p *providers.Weather) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Weather** for `%.4f, %.4f`\n", p.Latitude, p.Longitude)
	fmt.Fprintf(&sb, "- Temp: **%g%s**\n", p.Temperature, p.Unit)
	fmt.Fprintf(&sb, "- Wind: **%s**\n", p.Wind)
	if p.Summary != "" {
		fmt.Fprintf(&sb, "- Forecast: %s\n", p.Summary)
	}
	fmt.Fprintf(&sb, "- Time: `%s`", p.Period)
	return sb.String()
}

// epochUTC renders an epoch timestamp as a human-readable UTC string.
func epochUTC(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("Mon Jan  2 15:04:05 2006")
}

// Truncate cuts s at the nearest word boundary preceding max runes and
// appends an ellipsis. Strings within the limit come back unchanged.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := string(runes[:max])
	if idx := strings.LastIndexAny(cut, " \t\n"); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " \t\n") + "…"
}
