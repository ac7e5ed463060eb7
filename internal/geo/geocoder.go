package geo

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Limiter gates outbound geocoding requests (Nominatim usage policy).
// A denied request is treated like any other geocoding failure: the caller
// proceeds with null coordinates and the scheduler retries later.
type Limiter interface {
	AllowRequest() bool
}

// Result of a geocoding lookup. Nil coordinates mean the lookup failed
// (no match, timeout, service error); this is never surfaced as an error.
type Result struct {
	Latitude       *float64
	Longitude      *float64
	MatchedAddress string
}

// Success reports whether the lookup produced coordinates
func (r Result) Success() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// GeocoderConfig contains geocoder settings
type GeocoderConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Limiter   Limiter
}

// Geocoder resolves address strings to coordinates via the Nominatim
// (OpenStreetMap) search API
type Geocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   Limiter
}

// NewGeocoder creates a geocoder with the given configuration
func NewGeocoder(cfg GeocoderConfig) *Geocoder {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "rentcompare/1.0"
	}

	return &Geocoder{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
		limiter:   cfg.Limiter,
	}
}

type nominatimHit struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves an address to coordinates. All failure modes (empty
// address, rate-limit denial, timeout, non-200, no match, bad payload) return
// a Result with nil coordinates.
func (g *Geocoder) Geocode(address string) Result {
	if address == "" {
		return Result{}
	}

	if g.limiter != nil && !g.limiter.AllowRequest() {
		log.Printf("[geocode] rate limit reached, skipping lookup for %q", address)
		return Result{}
	}

	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", g.baseURL, url.QueryEscape(address))

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		log.Printf("[geocode] failed to build request for %q: %v", address, err)
		return Result{}
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		// Includes client timeout; callers proceed with null coordinates
		log.Printf("[geocode] lookup failed for %q: %v", address, err)
		return Result{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[geocode] service returned %d for %q", resp.StatusCode, address)
		return Result{}
	}

	var hits []nominatimHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		log.Printf("[geocode] failed to parse response for %q: %v", address, err)
		return Result{}
	}

	if len(hits) == 0 {
		log.Printf("[geocode] no match for %q", address)
		return Result{}
	}

	lat, latErr := strconv.ParseFloat(hits[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(hits[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		log.Printf("[geocode] invalid coordinates in response for %q", address)
		return Result{}
	}

	log.Printf("[geocode] %q -> (%f, %f)", address, lat, lon)
	return Result{
		Latitude:       &lat,
		Longitude:      &lon,
		MatchedAddress: hits[0].DisplayName,
	}
}
