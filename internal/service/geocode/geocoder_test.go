package geocode

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundwatch/internal/config"
	"soundwatch/internal/domain/geo"
	"soundwatch/internal/domain/tweet"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testGeocoder(t *testing.T, handler http.HandlerFunc) (*Geocoder, *int) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	g := New(config.GeocoderConfig{
		BaseURL:   srv.URL,
		CacheFile: filepath.Join(t.TempDir(), "cache.gob"),
	}, testLogger())

	return g, &calls
}

func seattleHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`[{"lat":"47.6062","lon":"-122.3321","display_name":"Seattle"}]`))
}

func emptyHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`[]`))
}

func TestLookupResolvesCoordinate(t *testing.T) {
	g, _ := testGeocoder(t, seattleHandler)

	coord, err := g.Lookup(context.Background(), "Seattle, WA")
	require.NoError(t, err)

	assert.InDelta(t, 47.6062, coord.Latitude, 1e-9)
	assert.InDelta(t, -122.3321, coord.Longitude, 1e-9)
}

func TestLookupCachesResults(t *testing.T) {
	g, calls := testGeocoder(t, seattleHandler)

	_, err := g.Lookup(context.Background(), "Seattle, WA")
	require.NoError(t, err)
	_, err = g.Lookup(context.Background(), "seattle, wa")
	require.NoError(t, err)

	// Second lookup differs only in case and hits the cache
	assert.Equal(t, 1, *calls)
}

func TestLookupCachesMisses(t *testing.T) {
	g, calls := testGeocoder(t, emptyHandler)

	_, err := g.Lookup(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = g.Lookup(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, ErrNoMatch)

	assert.Equal(t, 1, *calls)
}

func TestLookupEmptyAddress(t *testing.T) {
	g, calls := testGeocoder(t, seattleHandler)

	_, err := g.Lookup(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.Equal(t, 0, *calls)
}

func TestSaveCacheRoundtrip(t *testing.T) {
	cacheFile := filepath.Join(t.TempDir(), "cache.gob")

	srv := httptest.NewServer(http.HandlerFunc(seattleHandler))
	defer srv.Close()

	cfg := config.GeocoderConfig{BaseURL: srv.URL, CacheFile: cacheFile}

	g := New(cfg, testLogger())
	_, err := g.Lookup(context.Background(), "Seattle, WA")
	require.NoError(t, err)
	require.NoError(t, g.SaveCache())

	srv.Close()

	// A fresh geocoder answers from the saved cache without the network
	reloaded := New(cfg, testLogger())
	coord, err := reloaded.Lookup(context.Background(), "Seattle, WA")
	require.NoError(t, err)
	assert.InDelta(t, 47.6062, coord.Latitude, 1e-9)
}

func TestEnrichAcceptsOnlyRegionCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("q") {
		case "Tacoma, WA":
			w.Write([]byte(`[{"lat":"47.2529","lon":"-122.4443"}]`))
		case "Denver, CO":
			w.Write([]byte(`[{"lat":"39.7392","lon":"-104.9903"}]`))
		default:
			w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	g := New(config.GeocoderConfig{
		BaseURL:   srv.URL,
		CacheFile: filepath.Join(t.TempDir(), "cache.gob"),
	}, testLogger())
	resolver := NewResolver(g, geo.PugetSoundBox(), testLogger())

	corpus := tweet.NewCorpus("s", "q")
	corpus.Tweets = []tweet.Tweet{
		{ID: "1", ProfileLocation: "Tacoma, WA"},
		{ID: "2", ProfileLocation: "Denver, CO"},
		{ID: "3", ProfileLocation: "Tacoma, WA"},
		{ID: "4", ProfileLocation: "gibberish"},
		{ID: "5"},
	}

	stats, err := resolver.Enrich(context.Background(), corpus)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Distinct)
	assert.Equal(t, 2, stats.Resolved)
	assert.Equal(t, 1, stats.Accepted)
	assert.Equal(t, 1, stats.Misses)
	assert.Equal(t, 2, stats.Assigned)

	require.NotNil(t, corpus.Tweets[0].ProfileGeo)
	assert.InDelta(t, 47.2529, corpus.Tweets[0].ProfileGeo.Latitude, 1e-9)
	assert.Nil(t, corpus.Tweets[1].ProfileGeo)
	assert.NotNil(t, corpus.Tweets[2].ProfileGeo)
	assert.Nil(t, corpus.Tweets[3].ProfileGeo)
	assert.Nil(t, corpus.Tweets[4].ProfileGeo)
}
