package handlers

import (
	"net/http"
	"strconv"

	"soundwatch/internal/analysis"
	"soundwatch/internal/domain/geo"
	"soundwatch/internal/render"
)

// Assets bundles the loaded word lists the analysis endpoints need.
type Assets struct {
	Stopwords  *analysis.WordList
	Lexicon    *analysis.Lexicon
	Dictionary *analysis.Dictionary
}

// AnalysisHandler handles analysis-related HTTP requests
type AnalysisHandler struct {
	provider CorpusProvider
	assets   Assets
	box      geo.BoundingBox
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(provider CorpusProvider, assets Assets, box geo.BoundingBox) *AnalysisHandler {
	return &AnalysisHandler{
		provider: provider,
		assets:   assets,
		box:      box,
	}
}

func (h *AnalysisHandler) load(w http.ResponseWriter) (map[string][]string, bool) {
	corpus, err := h.provider.Load()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load corpus")
		return nil, false
	}
	if corpus == nil {
		respondWithError(w, http.StatusNotFound, "No corpus has been acquired yet")
		return nil, false
	}

	return analysis.TokenizeDocuments(corpus.Documents(), h.assets.Stopwords), true
}

func limitParam(r *http.Request, fallback int) int {
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

// GetWords returns the top corpus-wide term counts
func (h *AnalysisHandler) GetWords(w http.ResponseWriter, r *http.Request) {
	docs, ok := h.load(w)
	if !ok {
		return
	}

	counts := analysis.TermFrequencies(docs)
	limit := limitParam(r, 50)
	if limit < len(counts) {
		counts = counts[:limit]
	}

	respondWithJSON(w, http.StatusOK, counts)
}

// GetTFIDF returns the top tf-idf weighted terms
func (h *AnalysisHandler) GetTFIDF(w http.ResponseWriter, r *http.Request) {
	docs, ok := h.load(w)
	if !ok {
		return
	}

	scores := analysis.TopTerms(analysis.TFIDF(docs), limitParam(r, 50))
	respondWithJSON(w, http.StatusOK, scores)
}

// GetSentiment returns the corpus sentiment summary
func (h *AnalysisHandler) GetSentiment(w http.ResponseWriter, r *http.Request) {
	if h.assets.Lexicon == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Sentiment lexicon not loaded")
		return
	}

	docs, ok := h.load(w)
	if !ok {
		return
	}

	_, total := h.assets.Lexicon.ScoreDocuments(docs)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"summary":        total,
		"negative_share": total.NegativeShare(),
	})
}

// GetDictionary returns per-category dictionary match counts
func (h *AnalysisHandler) GetDictionary(w http.ResponseWriter, r *http.Request) {
	if h.assets.Dictionary == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Dictionary not loaded")
		return
	}

	docs, ok := h.load(w)
	if !ok {
		return
	}

	var all []string
	for _, tokens := range docs {
		all = append(all, tokens...)
	}

	respondWithJSON(w, http.StatusOK, h.assets.Dictionary.Counts(all))
}

// GetRegression fits the retweet model and returns the coefficients
func (h *AnalysisHandler) GetRegression(w http.ResponseWriter, r *http.Request) {
	corpus, err := h.provider.Load()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load corpus")
		return
	}
	if corpus == nil {
		respondWithError(w, http.StatusNotFound, "No corpus has been acquired yet")
		return
	}

	fit, err := analysis.FitLinear(analysis.RetweetObservations(corpus), analysis.RetweetCovariates)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "Failed to fit model")
		return
	}

	respondWithJSON(w, http.StatusOK, fit)
}

// GetPoints returns the located tweets as a GeoJSON feature collection
func (h *AnalysisHandler) GetPoints(w http.ResponseWriter, r *http.Request) {
	corpus, err := h.provider.Load()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load corpus")
		return
	}
	if corpus == nil {
		respondWithError(w, http.StatusNotFound, "No corpus has been acquired yet")
		return
	}

	respondWithJSON(w, http.StatusOK, render.TweetPoints(corpus, h.box, nil))
}
