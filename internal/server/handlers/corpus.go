package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"soundwatch/internal/domain/geo"
	"soundwatch/internal/domain/tweet"
)

// CorpusProvider loads the latest persisted corpus.
type CorpusProvider interface {
	Load() (*tweet.Corpus, error)
}

// CorpusHandler handles corpus-related HTTP requests
type CorpusHandler struct {
	provider CorpusProvider
	box      geo.BoundingBox
}

// NewCorpusHandler creates a new corpus handler
func NewCorpusHandler(provider CorpusProvider, box geo.BoundingBox) *CorpusHandler {
	return &CorpusHandler{
		provider: provider,
		box:      box,
	}
}

func (h *CorpusHandler) load(w http.ResponseWriter) (*tweet.Corpus, bool) {
	corpus, err := h.provider.Load()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load corpus")
		return nil, false
	}
	if corpus == nil {
		respondWithError(w, http.StatusNotFound, "No corpus has been acquired yet")
		return nil, false
	}
	return corpus, true
}

type corpusSummary struct {
	SessionID  string    `json:"session_id"`
	Query      string    `json:"query"`
	Tweets     int       `json:"tweets"`
	Users      int       `json:"users"`
	MaxID      string    `json:"max_id"`
	FetchedAt  time.Time `json:"fetched_at"`
	Geotagged  int       `json:"geotagged"`
	ProfileGeo int       `json:"profile_geo"`
	Located    int       `json:"located"`
}

// GetSummary returns counts for the persisted corpus
func (h *CorpusHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	corpus, ok := h.load(w)
	if !ok {
		return
	}

	summary := corpusSummary{
		SessionID: corpus.SessionID,
		Query:     corpus.Query,
		Tweets:    len(corpus.Tweets),
		Users:     len(corpus.Users),
		MaxID:     corpus.MaxID,
		FetchedAt: corpus.FetchedAt,
	}

	for _, t := range corpus.Tweets {
		if t.Geo != nil {
			summary.Geotagged++
		}
		if t.ProfileGeo != nil {
			summary.ProfileGeo++
		}
		if _, ok := t.Coordinate(h.box); ok {
			summary.Located++
		}
	}

	respondWithJSON(w, http.StatusOK, summary)
}

// ListTweets returns tweets, optionally only those newer than since_id
// or only those that resolve to a coordinate
func (h *CorpusHandler) ListTweets(w http.ResponseWriter, r *http.Request) {
	corpus, ok := h.load(w)
	if !ok {
		return
	}

	sinceID := r.URL.Query().Get("since_id")
	locatedOnly := r.URL.Query().Get("located") == "true"

	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	tweets := make([]tweet.Tweet, 0, limit)
	for _, t := range corpus.Tweets {
		if sinceID != "" && !tweet.IDLess(sinceID, t.ID) {
			continue
		}
		if locatedOnly {
			if _, ok := t.Coordinate(h.box); !ok {
				continue
			}
		}
		tweets = append(tweets, t)
		if len(tweets) >= limit {
			break
		}
	}

	respondWithJSON(w, http.StatusOK, tweets)
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string) {
	response := map[string]string{"error": message}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}
