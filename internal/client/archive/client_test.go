package archive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundwatch/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const pageOne = `{
  "data": [
    {
      "id": "101",
      "author_id": "u1",
      "created_at": "2023-06-01T12:00:00Z",
      "text": "the sound is calm today",
      "lang": "en",
      "public_metrics": {"retweet_count": 3},
      "geo": {"place_id": "p1"}
    }
  ],
  "includes": {
    "users": [
      {"id": "u1", "username": "someone", "location": "Tacoma, WA",
       "public_metrics": {"followers_count": 10}}
    ],
    "places": [
      {"id": "p1", "full_name": "Seattle, WA",
       "geo": {"bbox": [-122.5, 47.5, -122.2, 47.7]}}
    ]
  },
  "meta": {"result_count": 1, "next_token": "tok2"}
}`

const pageTwo = `{
  "data": [
    {
      "id": "102",
      "author_id": "u1",
      "created_at": "2023-06-01T13:00:00Z",
      "text": "ferry wake again",
      "lang": "en",
      "public_metrics": {"retweet_count": 0},
      "geo": {"coordinates": {"type": "Point", "coordinates": [-122.33, 47.61]}}
    },
    {
      "id": "101",
      "author_id": "u1",
      "created_at": "2023-06-01T12:00:00Z",
      "text": "the sound is calm today",
      "lang": "en",
      "public_metrics": {"retweet_count": 3}
    }
  ],
  "includes": {
    "users": [
      {"id": "u1", "username": "someone", "location": "Tacoma, WA",
       "public_metrics": {"followers_count": 10}}
    ]
  },
  "meta": {"result_count": 2}
}`

func TestExportAndBind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tweets/search/all", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("query"), "place_country:US")
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("next_token") == "tok2" {
			fmt.Fprint(w, pageTwo)
		} else {
			fmt.Fprint(w, pageOne)
		}
	}))
	defer srv.Close()

	outDir := t.TempDir()
	client := New(config.ArchiveConfig{BaseURL: srv.URL, PageSize: 100}, "token", testLogger())

	total, err := client.Export(context.Background(), ExportRequest{
		Query:   "puget sound",
		Country: "US",
		Start:   time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2023, 6, 2, 0, 0, 0, 0, time.UTC),
		OutDir:  outDir,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "archive-20230601-0001.ndjson", entries[0].Name())

	corpus, err := Bind(outDir, "puget sound")
	require.NoError(t, err)

	// The duplicate of id 101 on the second page collapses
	require.Len(t, corpus.Tweets, 2)
	assert.Equal(t, "102", corpus.MaxID)
	assert.Equal(t, "puget sound", corpus.Query)
	assert.Equal(t, "someone", corpus.Users["u1"].UserName)

	first := corpus.Tweets[0]
	assert.Equal(t, "101", first.ID)
	assert.Equal(t, "Seattle, WA", first.PlaceName)
	assert.Equal(t, "Tacoma, WA", first.ProfileLocation)
	// No exact point, so the place bbox centroid stands in
	require.NotNil(t, first.Geo)
	assert.InDelta(t, 47.6, first.Geo.Latitude, 1e-9)
	assert.InDelta(t, -122.35, first.Geo.Longitude, 1e-9)

	second := corpus.Tweets[1]
	require.NotNil(t, second.Geo)
	assert.InDelta(t, 47.61, second.Geo.Latitude, 1e-9)
	assert.InDelta(t, -122.33, second.Geo.Longitude, 1e-9)
}

func TestExportHonorsMaxPages(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, pageOne)
	}))
	defer srv.Close()

	client := New(config.ArchiveConfig{BaseURL: srv.URL, PageSize: 100}, "token", testLogger())

	total, err := client.Export(context.Background(), ExportRequest{
		Query:    "q",
		OutDir:   t.TempDir(),
		MaxPages: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, total)
	assert.Equal(t, 2, calls)
}

func TestExportSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"title": "Too Many Requests", "detail": "slow down"}`)
	}))
	defer srv.Close()

	client := New(config.ArchiveConfig{BaseURL: srv.URL, PageSize: 100}, "token", testLogger())

	_, err := client.Export(context.Background(), ExportRequest{Query: "q", OutDir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Too Many Requests")
}

func TestBindEmptyDirectory(t *testing.T) {
	_, err := Bind(t.TempDir(), "q")
	assert.Error(t, err)
}

func TestBindSkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	content := "\n" + `{"tweet": {"id": "1", "text": "hi"}}` + "\n\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x-0001.ndjson"), []byte(content), 0o644))

	corpus, err := Bind(dir, "q")
	require.NoError(t, err)
	assert.Len(t, corpus.Tweets, 1)
}
