package geocode

import (
	"context"
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"soundwatch/internal/config"
	"soundwatch/internal/domain/geo"
)

// ErrNoMatch is returned when the geocoding service has no result for an
// address string.
var ErrNoMatch = fmt.Errorf("no geocoding match")

// Geocoder resolves free-form location strings to coordinates against a
// Nominatim-style endpoint. Lookups are throttled and cached on disk so a
// re-run never re-queries a location string it has already resolved.
type Geocoder struct {
	http      *resty.Client
	callDelay time.Duration
	cacheFile string
	log       *slog.Logger

	mu       sync.Mutex
	cache    map[string]cachedResult
	lastCall time.Time
}

type cachedResult struct {
	Coordinate geo.Coordinate
	Found      bool
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// New creates a geocoder and loads its on-disk cache if one exists.
func New(cfg config.GeocoderConfig, log *slog.Logger) *Geocoder {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", userAgent(cfg.Email))

	g := &Geocoder{
		http:      http,
		callDelay: cfg.CallDelay,
		cacheFile: cfg.CacheFile,
		log:       log,
		cache:     make(map[string]cachedResult),
	}

	if err := g.loadCache(); err != nil {
		log.Warn("geocode cache not loaded", "file", cfg.CacheFile, "error", err)
	}

	return g
}

func userAgent(email string) string {
	if email == "" {
		return "soundwatch"
	}
	return "soundwatch (" + email + ")"
}

// Lookup resolves one address string. Cache hits, including cached
// misses, do not touch the network.
func (g *Geocoder) Lookup(ctx context.Context, address string) (geo.Coordinate, error) {
	key := strings.ToLower(strings.TrimSpace(address))
	if key == "" {
		return geo.Coordinate{}, ErrNoMatch
	}

	g.mu.Lock()
	if res, ok := g.cache[key]; ok {
		g.mu.Unlock()
		if !res.Found {
			return geo.Coordinate{}, ErrNoMatch
		}
		return res.Coordinate, nil
	}
	g.throttleLocked()
	g.mu.Unlock()

	coord, found, err := g.query(ctx, address)
	if err != nil {
		return geo.Coordinate{}, err
	}

	g.mu.Lock()
	g.cache[key] = cachedResult{Coordinate: coord, Found: found}
	g.mu.Unlock()

	if !found {
		return geo.Coordinate{}, ErrNoMatch
	}
	return coord, nil
}

// throttleLocked sleeps until callDelay has elapsed since the last
// network call. Callers hold the mutex, so concurrent lookups are also
// serialized, which is what the service's usage policy expects.
func (g *Geocoder) throttleLocked() {
	if g.callDelay <= 0 {
		return
	}
	if wait := g.callDelay - time.Since(g.lastCall); wait > 0 {
		time.Sleep(wait)
	}
	g.lastCall = time.Now()
}

func (g *Geocoder) query(ctx context.Context, address string) (geo.Coordinate, bool, error) {
	var results []nominatimResult
	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      address,
			"format": "json",
			"limit":  "1",
		}).
		SetResult(&results).
		Get("/search")
	if err != nil {
		return geo.Coordinate{}, false, fmt.Errorf("geocoding request failed: %w", err)
	}

	if resp.IsError() {
		return geo.Coordinate{}, false, fmt.Errorf("geocoding service returned %d", resp.StatusCode())
	}

	if len(results) == 0 {
		return geo.Coordinate{}, false, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return geo.Coordinate{}, false, fmt.Errorf("malformed latitude %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return geo.Coordinate{}, false, fmt.Errorf("malformed longitude %q: %w", results[0].Lon, err)
	}

	return geo.Coordinate{Latitude: lat, Longitude: lng}, true, nil
}

// SaveCache persists the lookup cache to disk.
func (g *Geocoder) SaveCache() error {
	if g.cacheFile == "" {
		return nil
	}

	g.mu.Lock()
	snapshot := make(map[string]cachedResult, len(g.cache))
	for k, v := range g.cache {
		snapshot[k] = v
	}
	g.mu.Unlock()

	tmp := g.cacheFile + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("unable to create cache file: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(snapshot); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("unable to encode cache: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("unable to close cache file: %w", err)
	}

	return os.Rename(tmp, g.cacheFile)
}

func (g *Geocoder) loadCache() error {
	if g.cacheFile == "" {
		return nil
	}

	f, err := os.Open(g.cacheFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	g.mu.Lock()
	defer g.mu.Unlock()
	return gob.NewDecoder(f).Decode(&g.cache)
}
