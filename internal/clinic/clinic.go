// Package clinic looks up dermatologists near a coordinate through the
// OpenStreetMap Overpass API.
package clinic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/notexe/glowcare/internal/config"
)

const (
	defaultOverpassURL = "https://overpass-api.de/api/interpreter"
	defaultRadius      = 20000
	defaultLimit       = 10
	defaultTimeout     = 30

	earthRadiusKm = 6371.0
)

// ErrInvalidCoordinates is returned for a latitude or longitude out of range.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Clinic is one dermatology practice.
type Clinic struct {
	ID         int64
	Name       string
	Phone      string
	Address    string
	Lat        float64
	Lon        float64
	DistanceKm float64
}

// MapURL links to the clinic on openstreetmap.org.
func (c Clinic) MapURL() string {
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%.5f&mlon=%.5f#map=17/%.5f/%.5f", c.Lat, c.Lon, c.Lat, c.Lon)
}

// Finder queries an Overpass interpreter.
type Finder struct {
	client *http.Client
	url    string
	radius int
	limit  int
}

func NewFinder(cfg config.ClinicsConfig) *Finder {
	f := &Finder{
		url:    cfg.OverpassURL,
		radius: cfg.RadiusMeters,
		limit:  cfg.Limit,
	}
	if f.url == "" {
		f.url = defaultOverpassURL
	}
	if f.radius <= 0 {
		f.radius = defaultRadius
	}
	if f.limit <= 0 {
		f.limit = defaultLimit
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	f.client = &http.Client{Timeout: time.Duration(timeout) * time.Second}
	return f
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	ID   int64             `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

// Nearby returns up to the configured limit of dermatologists within the
// search radius, nearest first. Elements returned by several selectors are
// listed once.
func (f *Finder) Nearby(ctx context.Context, lat, lon float64) ([]Clinic, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("%w: %g,%g", ErrInvalidCoordinates, lat, lon)
	}

	form := url.Values{"data": {Query(lat, lon, f.radius)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create Overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Overpass request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("Overpass API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode Overpass response: %w", err)
	}

	seen := make(map[int64]bool, len(out.Elements))
	clinics := make([]Clinic, 0, len(out.Elements))
	for _, el := range out.Elements {
		if seen[el.ID] {
			continue
		}
		seen[el.ID] = true
		clinics = append(clinics, fromElement(el, lat, lon))
	}

	sort.SliceStable(clinics, func(i, j int) bool {
		return clinics[i].DistanceKm < clinics[j].DistanceKm
	})
	if len(clinics) > f.limit {
		clinics = clinics[:f.limit]
	}
	return clinics, nil
}

// Query builds the Overpass QL for dermatology nodes around a point.
func Query(lat, lon float64, radius int) string {
	selectors := []string{
		`["healthcare"="doctor"]["healthcare:speciality"="dermatology"]`,
		`["amenity"="doctors"]["healthcare:speciality"="dermatology"]`,
		`["healthcare:speciality"="dermatologist"]`,
		`["amenity"="clinic"]["healthcare:speciality"="dermatology"]`,
		`["amenity"="hospital"]["healthcare:speciality"="dermatology"]`,
	}

	var b strings.Builder
	b.WriteString("[out:json];\n(\n")
	for _, sel := range selectors {
		fmt.Fprintf(&b, "  node%s(around:%d,%g,%g);\n", sel, radius, lat, lon)
	}
	b.WriteString(");\nout body;\n")
	return b.String()
}

func fromElement(el overpassElement, lat, lon float64) Clinic {
	c := Clinic{
		ID:         el.ID,
		Name:       el.Tags["name"],
		Phone:      firstTag(el.Tags, "phone", "contact:phone"),
		Address:    address(el.Tags),
		Lat:        el.Lat,
		Lon:        el.Lon,
		DistanceKm: Distance(lat, lon, el.Lat, el.Lon),
	}
	if c.Name == "" {
		c.Name = "Unnamed Dermatologist"
	}
	return c
}

func address(tags map[string]string) string {
	if a := tags["address"]; a != "" {
		return a
	}

	street := strings.TrimSpace(tags["addr:housenumber"] + " " + tags["addr:street"])
	parts := make([]string, 0, 2)
	for _, p := range []string{street, tags["addr:city"]} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func firstTag(tags map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := tags[k]; v != "" {
			return v
		}
	}
	return ""
}

// Distance is the haversine distance in kilometres.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
