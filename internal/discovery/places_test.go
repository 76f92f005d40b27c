package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Jasmitha1474/women-safety-app/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPlacesServer(t *testing.T, status int, body string) (*PlacesSearcher, *url.URL) {
	captured := &url.URL{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = *r.URL
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewPlacesSearcher(srv.URL, "test-key", 5*time.Second, zap.NewNop()), captured
}

var testQuery = Query{
	Center:       models.Position{Lat: 12.9716, Lng: 77.5946},
	RadiusMeters: 4000,
	Category:     models.CategoryPolice,
}

func TestPlacesSearcher_OK(t *testing.T) {
	s, u := newPlacesServer(t, http.StatusOK, `{
		"status": "OK",
		"results": [
			{"place_id": "p1", "name": "Cubbon Park Police Station", "vicinity": "Kasturba Rd",
			 "geometry": {"location": {"lat": 12.975, "lng": 77.598}}},
			{"place_id": "p2", "name": "Ashok Nagar Police Station", "vicinity": "Brigade Rd",
			 "geometry": {"location": {"lat": 12.968, "lng": 77.607}}}
		]
	}`)

	r := s.Search(context.Background(), testQuery)
	require.Equal(t, StatusOK, r.Status)
	require.Len(t, r.Places, 2)

	assert.Equal(t, "p1", r.Places[0].ID)
	assert.Equal(t, "Cubbon Park Police Station", r.Places[0].DisplayName)
	assert.Equal(t, "Kasturba Rd", r.Places[0].AddressSnippet)
	assert.Equal(t, models.CategoryPolice, r.Places[0].Category)
	assert.InDelta(t, 12.975, r.Places[0].Position.Lat, 1e-9)

	assert.Equal(t, nearbySearchPath, u.Path)
	q := u.Query()
	assert.Equal(t, "12.9716,77.5946", q.Get("location"))
	assert.Equal(t, "4000", q.Get("radius"))
	assert.Equal(t, "police", q.Get("type"))
	assert.Equal(t, "test-key", q.Get("key"))
}

func TestPlacesSearcher_ZeroResults(t *testing.T) {
	s, _ := newPlacesServer(t, http.StatusOK, `{"status": "ZERO_RESULTS", "results": []}`)

	r := s.Search(context.Background(), testQuery)
	assert.Equal(t, StatusNoResults, r.Status)
	assert.Empty(t, r.Places)
}

func TestPlacesSearcher_ProviderStatus(t *testing.T) {
	s, _ := newPlacesServer(t, http.StatusOK, `{"status": "REQUEST_DENIED", "error_message": "invalid key"}`)

	r := s.Search(context.Background(), testQuery)
	assert.Equal(t, StatusProviderError, r.Status)
	assert.ErrorContains(t, r.Err, "REQUEST_DENIED")
}

func TestPlacesSearcher_HTTPError(t *testing.T) {
	s, _ := newPlacesServer(t, http.StatusBadGateway, `{}`)

	r := s.Search(context.Background(), testQuery)
	assert.Equal(t, StatusProviderError, r.Status)
	assert.Error(t, r.Err)
}

func TestPlacesSearcher_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	s := NewPlacesSearcher(srv.URL, "k", time.Second, zap.NewNop())
	r := s.Search(context.Background(), testQuery)
	assert.Equal(t, StatusProviderError, r.Status)
}
