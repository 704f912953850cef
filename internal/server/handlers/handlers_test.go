package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundwatch/internal/analysis"
	"soundwatch/internal/domain/geo"
	"soundwatch/internal/domain/tweet"
)

type fakeProvider struct {
	corpus *tweet.Corpus
	err    error
}

func (f *fakeProvider) Load() (*tweet.Corpus, error) { return f.corpus, f.err }

func testCorpus() *tweet.Corpus {
	corpus := tweet.NewCorpus("session-1", "puget sound")
	corpus.MaxID = "12"
	corpus.Tweets = []tweet.Tweet{
		{ID: "10", Text: "the water looks good today", Geo: &geo.Coordinate{Latitude: 47.6, Longitude: -122.33}},
		{ID: "11", Text: "bad sewage spill near the ferry"},
		{ID: "12", Text: "bad news for the bad shoreline"},
	}
	return corpus
}

func TestGetSummary(t *testing.T) {
	h := NewCorpusHandler(&fakeProvider{corpus: testCorpus()}, geo.PugetSoundBox())

	rec := httptest.NewRecorder()
	h.GetSummary(rec, httptest.NewRequest(http.MethodGet, "/api/v1/corpus", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var summary corpusSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "session-1", summary.SessionID)
	assert.Equal(t, 3, summary.Tweets)
	assert.Equal(t, 1, summary.Geotagged)
	assert.Equal(t, 1, summary.Located)
}

func TestGetSummaryNoCorpus(t *testing.T) {
	h := NewCorpusHandler(&fakeProvider{}, geo.PugetSoundBox())

	rec := httptest.NewRecorder()
	h.GetSummary(rec, httptest.NewRequest(http.MethodGet, "/api/v1/corpus", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSummaryLoadError(t *testing.T) {
	h := NewCorpusHandler(&fakeProvider{err: errors.New("disk gone")}, geo.PugetSoundBox())

	rec := httptest.NewRecorder()
	h.GetSummary(rec, httptest.NewRequest(http.MethodGet, "/api/v1/corpus", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListTweetsSinceID(t *testing.T) {
	h := NewCorpusHandler(&fakeProvider{corpus: testCorpus()}, geo.PugetSoundBox())

	rec := httptest.NewRecorder()
	h.ListTweets(rec, httptest.NewRequest(http.MethodGet, "/api/v1/corpus/tweets?since_id=10", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var tweets []tweet.Tweet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tweets))
	require.Len(t, tweets, 2)
	assert.Equal(t, "11", tweets[0].ID)
}

func TestListTweetsLocatedOnly(t *testing.T) {
	h := NewCorpusHandler(&fakeProvider{corpus: testCorpus()}, geo.PugetSoundBox())

	rec := httptest.NewRecorder()
	h.ListTweets(rec, httptest.NewRequest(http.MethodGet, "/api/v1/corpus/tweets?located=true", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var tweets []tweet.Tweet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tweets))
	require.Len(t, tweets, 1)
	assert.Equal(t, "10", tweets[0].ID)
}

func TestListTweetsBadLimit(t *testing.T) {
	h := NewCorpusHandler(&fakeProvider{corpus: testCorpus()}, geo.PugetSoundBox())

	rec := httptest.NewRecorder()
	h.ListTweets(rec, httptest.NewRequest(http.MethodGet, "/api/v1/corpus/tweets?limit=zero", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetWords(t *testing.T) {
	h := NewAnalysisHandler(&fakeProvider{corpus: testCorpus()}, Assets{
		Stopwords: analysis.NewWordList("the", "for"),
	}, geo.PugetSoundBox())

	rec := httptest.NewRecorder()
	h.GetWords(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analysis/words?limit=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var counts []analysis.TermCount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	require.Len(t, counts, 1)
	assert.Equal(t, analysis.TermCount{Term: "bad", Count: 3}, counts[0])
}

func TestGetSentiment(t *testing.T) {
	h := NewAnalysisHandler(&fakeProvider{corpus: testCorpus()}, Assets{
		Stopwords: analysis.NewWordList(),
		Lexicon:   analysis.NewLexicon([]string{"good"}, []string{"bad"}),
	}, geo.PugetSoundBox())

	rec := httptest.NewRecorder()
	h.GetSentiment(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analysis/sentiment", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Summary       analysis.SentimentSummary `json:"summary"`
		NegativeShare float64                   `json:"negative_share"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 1, out.Summary.Positive)
	assert.Equal(t, 3, out.Summary.Negative)
	assert.InDelta(t, 0.75, out.NegativeShare, 1e-9)
}

func TestGetSentimentWithoutLexicon(t *testing.T) {
	h := NewAnalysisHandler(&fakeProvider{corpus: testCorpus()}, Assets{
		Stopwords: analysis.NewWordList(),
	}, geo.PugetSoundBox())

	rec := httptest.NewRecorder()
	h.GetSentiment(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analysis/sentiment", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetPoints(t *testing.T) {
	h := NewAnalysisHandler(&fakeProvider{corpus: testCorpus()}, Assets{}, geo.PugetSoundBox())

	rec := httptest.NewRecorder()
	h.GetPoints(rec, httptest.NewRequest(http.MethodGet, "/api/v1/map/points", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Len(t, fc.Features, 1)
}
