package providers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Place is one reverse-geocode hit.
type Place struct {
	Name    string
	Country string
}

// ISSPosition is the station's position at Timestamp, with the nearest
// named place when the geocoder had a hit. Place is nil over open water or
// unpopulated terrain; that is a successful fetch, not a failure.
type ISSPosition struct {
	Latitude  float64
	Longitude float64
	Timestamp int64
	Place     *Place
}

// ISS chains the open-notify position lookup into a GraphHopper reverse
// geocode of those coordinates.
type ISS struct {
	client     *http.Client
	geocodeKey string

	// overridable for tests
	PositionURL string
	GeocodeURL  string
}

func NewISS(client *http.Client, geocodeKey string) *ISS {
	return &ISS{
		client:      client,
		geocodeKey:  geocodeKey,
		PositionURL: "http://api.open-notify.org/iss-now.json",
		GeocodeURL:  "https://graphhopper.com/api/1/geocode",
	}
}

func (p *ISS) Name() string { return "iss" }

type issNowResponse struct {
	Message     string `json:"message"`
	Timestamp   int64  `json:"timestamp"`
	ISSPosition struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"iss_position"`
}

type geocodeResponse struct {
	Hits []struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"hits"`
}

func (p *ISS) Fetch(ctx context.Context, _ []string) (any, error) {
	var now issNowResponse
	if err := fetchJSON(ctx, p.client, p.Name(), p.PositionURL, &now); err != nil {
		return nil, err
	}
	if now.Message != "success" {
		return nil, semanticErr(p.Name(), "position lookup returned message %q", now.Message)
	}

	lat, err := strconv.ParseFloat(now.ISSPosition.Latitude, 64)
	if err != nil {
		return nil, semanticErr(p.Name(), "unparseable latitude %q", now.ISSPosition.Latitude)
	}
	lng, err := strconv.ParseFloat(now.ISSPosition.Longitude, 64)
	if err != nil {
		return nil, semanticErr(p.Name(), "unparseable longitude %q", now.ISSPosition.Longitude)
	}

	pos := &ISSPosition{Latitude: lat, Longitude: lng, Timestamp: now.Timestamp}

	q := url.Values{}
	q.Set("key", p.geocodeKey)
	q.Set("reverse", "true")
	q.Set("point", now.ISSPosition.Latitude+","+now.ISSPosition.Longitude)

	var geo geocodeResponse
	if err := fetchJSON(ctx, p.client, p.Name(), p.GeocodeURL+"?"+q.Encode(), &geo); err != nil {
		return nil, err
	}
	if len(geo.Hits) > 0 {
		pos.Place = &Place{Name: geo.Hits[0].Name, Country: geo.Hits[0].Country}
	}
	return pos, nil
}
