package geocode

import (
	"context"
	"errors"
	"log/slog"

	"soundwatch/internal/domain/geo"
	"soundwatch/internal/domain/tweet"
)

// Resolver enriches a corpus with profile coordinates: every distinct
// self-reported location string is geocoded once, then accepted only when
// it falls inside the region acceptance box.
type Resolver struct {
	geocoder *Geocoder
	box      geo.BoundingBox
	log      *slog.Logger
}

// NewResolver creates a resolver for a region acceptance box.
func NewResolver(geocoder *Geocoder, box geo.BoundingBox, log *slog.Logger) *Resolver {
	return &Resolver{geocoder: geocoder, box: box, log: log}
}

// EnrichStats summarizes one enrichment pass.
type EnrichStats struct {
	Distinct int
	Resolved int
	Accepted int
	Misses   int
	Assigned int
}

// Enrich fills ProfileGeo for every tweet whose author reported a
// location that geocodes into the acceptance box. Tweets that already
// carry a native geotag are left untouched but still counted as assigned
// when their author's location resolves.
func (r *Resolver) Enrich(ctx context.Context, corpus *tweet.Corpus) (EnrichStats, error) {
	var stats EnrichStats

	resolved := make(map[string]*geo.Coordinate)
	for i := range corpus.Tweets {
		loc := corpus.Tweets[i].ProfileLocation
		if loc == "" {
			continue
		}

		coord, ok := resolved[loc]
		if !ok {
			stats.Distinct++
			c, err := r.geocoder.Lookup(ctx, loc)
			switch {
			case errors.Is(err, ErrNoMatch):
				stats.Misses++
				resolved[loc] = nil
				continue
			case err != nil:
				return stats, err
			}
			stats.Resolved++

			if r.box.Contains(c) {
				stats.Accepted++
				coord = &c
			}
			resolved[loc] = coord
		}

		if coord != nil {
			c := *coord
			corpus.Tweets[i].ProfileGeo = &c
			stats.Assigned++
		}
	}

	r.log.Info("profile locations enriched",
		"distinct", stats.Distinct,
		"resolved", stats.Resolved,
		"accepted", stats.Accepted,
		"assigned", stats.Assigned)

	return stats, nil
}
