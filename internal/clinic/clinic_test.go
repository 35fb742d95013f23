package clinic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/notexe/glowcare/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	homeLat = 40.7128
	homeLon = -74.0060
)

func element(id int64, lat, lon float64, tags map[string]string) map[string]any {
	return map[string]any{"type": "node", "id": id, "lat": lat, "lon": lon, "tags": tags}
}

func TestNearbyDedupesSortsAndCaps(t *testing.T) {
	var elements []map[string]any
	// twelve clinics walking north, listed far to near, plus a repeat
	for i := 12; i >= 1; i-- {
		elements = append(elements, element(int64(i), homeLat+float64(i)*0.01, homeLon, map[string]string{
			"name": fmt.Sprintf("Clinic %d", i),
		}))
	}
	elements = append(elements, elements[11])

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Contains(t, r.PostForm.Get("data"), "around:20000,40.7128,-74.006")

		_ = json.NewEncoder(w).Encode(map[string]any{"elements": elements})
	}))
	defer server.Close()

	f := NewFinder(config.ClinicsConfig{OverpassURL: server.URL})
	clinics, err := f.Nearby(context.Background(), homeLat, homeLon)
	require.NoError(t, err)

	require.Len(t, clinics, 10)
	for i, c := range clinics {
		assert.Equal(t, int64(i+1), c.ID)
		if i > 0 {
			assert.Greater(t, c.DistanceKm, clinics[i-1].DistanceKm)
		}
	}
	assert.Equal(t, "Clinic 1", clinics[0].Name)
	assert.InDelta(t, 1.11, clinics[0].DistanceKm, 0.01)
}

func TestNearbyReadsContactTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"elements": []map[string]any{
			element(7, homeLat, homeLon, map[string]string{
				"contact:phone":    "+1 212 555 0100",
				"addr:housenumber": "12",
				"addr:street":      "Main St",
				"addr:city":        "New York",
			}),
		}})
	}))
	defer server.Close()

	clinics, err := NewFinder(config.ClinicsConfig{OverpassURL: server.URL}).Nearby(context.Background(), homeLat, homeLon)
	require.NoError(t, err)
	require.Len(t, clinics, 1)

	c := clinics[0]
	assert.Equal(t, "Unnamed Dermatologist", c.Name)
	assert.Equal(t, "+1 212 555 0100", c.Phone)
	assert.Equal(t, "12 Main St, New York", c.Address)
	assert.Zero(t, c.DistanceKm)
	assert.Contains(t, c.MapURL(), "mlat=40.71280")
}

func TestNearbyEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"elements":[]}`))
	}))
	defer server.Close()

	clinics, err := NewFinder(config.ClinicsConfig{OverpassURL: server.URL}).Nearby(context.Background(), homeLat, homeLon)
	require.NoError(t, err)
	assert.Empty(t, clinics)
}

func TestNearbyErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	f := NewFinder(config.ClinicsConfig{OverpassURL: server.URL})

	_, err := f.Nearby(context.Background(), homeLat, homeLon)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")

	_, err = f.Nearby(context.Background(), 91, 0)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
}

func TestQueryCoversEverySelector(t *testing.T) {
	q := Query(1.5, -2.25, 5000)
	assert.Contains(t, q, "[out:json];")
	assert.Contains(t, q, `node["healthcare:speciality"="dermatologist"](around:5000,1.5,-2.25);`)
	assert.Contains(t, q, `node["amenity"="hospital"]["healthcare:speciality"="dermatology"]`)
	assert.Contains(t, q, "out body;")
}
