// Package routing implements the RouteProvider against the Kakao Mobility
// directions API.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/klifeguard/emergency-finder/internal/domain/entities"
	"github.com/klifeguard/emergency-finder/internal/domain/providers"
	"github.com/klifeguard/emergency-finder/internal/infrastructure/observability"
)

const (
	directionsTimeout = 5 * time.Second

	// ETA enrichment stops after the nearest hospitals to bound per-search
	// spend on the metered directions API.
	etaLookupLimit = 10
)

// KakaoProvider implements providers.RouteProvider using Kakao Mobility's
// navigation API. An empty API key disables all lookups.
type KakaoProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
}

// NewKakaoProvider creates a route provider for the Kakao Mobility API.
func NewKakaoProvider(baseURL, apiKey string, metrics *observability.Metrics) providers.RouteProvider {
	return NewKakaoProviderWithOptions(baseURL, apiKey, metrics, nil)
}

// NewKakaoProviderWithOptions allows overriding the HTTP client (used for tests).
func NewKakaoProviderWithOptions(baseURL, apiKey string, metrics *observability.Metrics, httpClient *http.Client) providers.RouteProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: directionsTimeout}
	}
	return &KakaoProvider{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		metrics:    metrics,
	}
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Duration float64 `json:"duration"`
			Distance float64 `json:"distance"`
		} `json:"summary"`
	} `json:"routes"`
}

// FetchETA returns the driving time in whole minutes, or nil when no
// credential is configured or the lookup fails.
func (p *KakaoProvider) FetchETA(ctx context.Context, originLat, originLon, destLat, destLon float64) *int {
	if p.apiKey == "" {
		return nil
	}

	reqURL := fmt.Sprintf("%s/directions?origin=%f,%f&destination=%f,%f&priority=RECOMMEND",
		p.baseURL, originLon, originLat, destLon, destLat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Authorization", "KakaoAK "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.record(ctx, time.Since(start), false)
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("directions request failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.record(ctx, time.Since(start), false)
		observability.LoggerFromContext(ctx).Warn().Int("status", resp.StatusCode).Msg("directions request rejected")
		return nil
	}

	var payload directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		p.record(ctx, time.Since(start), false)
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("malformed directions response")
		return nil
	}
	p.record(ctx, time.Since(start), true)

	if len(payload.Routes) == 0 {
		return nil
	}
	minutes := int(math.Round(payload.Routes[0].Summary.Duration / 60))
	return &minutes
}

// AnnotateETAs sets the ETA on the nearest hospitals in place. Lookups run
// concurrently; a failed lookup leaves only that hospital without an ETA.
func (p *KakaoProvider) AnnotateETAs(ctx context.Context, originLat, originLon float64, hospitals []*entities.Hospital) {
	top := hospitals
	if len(top) > etaLookupLimit {
		top = top[:etaLookupLimit]
	}

	var wg sync.WaitGroup
	for _, h := range top {
		wg.Add(1)
		go func(h *entities.Hospital) {
			defer wg.Done()
			h.ETAMinutes = p.FetchETA(ctx, originLat, originLon, h.Location.Latitude, h.Location.Longitude)
		}(h)
	}
	wg.Wait()
}

// DeepLink builds a kakaomap route link starting at the user's position.
func (p *KakaoProvider) DeepLink(userLat, userLon float64, dest *entities.Location, destName string) string {
	link := fmt.Sprintf("kakaomap://route?sp=%f,%f&by=CAR", userLat, userLon)
	if dest != nil {
		link += fmt.Sprintf("&ep=%f,%f", dest.Latitude, dest.Longitude)
		if destName != "" {
			link += "&ep_name=" + url.QueryEscape(destName)
		}
	}
	return link
}

func (p *KakaoProvider) record(ctx context.Context, duration time.Duration, success bool) {
	if p.metrics != nil {
		p.metrics.RecordUpstreamRequest(ctx, "kakao", "directions", duration, success)
	}
}
