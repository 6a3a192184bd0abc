// Package directory implements the DirectoryProvider against the NEMC
// public emergency-medical-information API.
package directory

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/klifeguard/emergency-finder/internal/domain/entities"
	"github.com/klifeguard/emergency-finder/internal/domain/providers"
	"github.com/klifeguard/emergency-finder/internal/infrastructure/observability"
	"github.com/klifeguard/emergency-finder/pkg/geo"
)

const (
	hospitalListPath = "/ErmctInfoInqireService/getEgytListInfoInqire"
	bedStatusPath    = "/ErmctInfoInqireService/getEmrrmRltmUsefulSckbdInfoInqire"
	pharmacyListPath = "/ErmctInsttInfoInqireService/getParmacyListInfoInqire"

	// One generous page covers the densest metro areas; paging is never
	// needed inside a 10km radius.
	maxRows = 50

	// Per-hospital bed-status requests fan out in groups of this size so a
	// long candidate list cannot flood the upstream.
	bedStatusBatchSize = 10

	listTimeout      = 10 * time.Second
	bedStatusTimeout = 5 * time.Second
)

// NEMCProvider implements providers.DirectoryProvider against the data.go.kr
// emergency medical information service.
type NEMCProvider struct {
	apiKey     string
	baseURL    string
	listClient *http.Client
	bedClient  *http.Client
	metrics    *observability.Metrics
}

// NewNEMCProvider creates a directory provider for the public NEMC API.
func NewNEMCProvider(baseURL, apiKey string, metrics *observability.Metrics) providers.DirectoryProvider {
	return NewNEMCProviderWithOptions(baseURL, apiKey, metrics, nil, nil)
}

// NewNEMCProviderWithOptions allows overriding the HTTP clients (used for tests).
func NewNEMCProviderWithOptions(baseURL, apiKey string, metrics *observability.Metrics, listClient, bedClient *http.Client) providers.DirectoryProvider {
	if listClient == nil {
		listClient = &http.Client{Timeout: listTimeout}
	}
	if bedClient == nil {
		bedClient = &http.Client{Timeout: bedStatusTimeout}
	}
	return &NEMCProvider{
		apiKey:     apiKey,
		baseURL:    baseURL,
		listClient: listClient,
		bedClient:  bedClient,
		metrics:    metrics,
	}
}

// FindHospitals queries the hospital directory around the origin and returns
// candidates within radiusKm, nearest first. Any upstream or parse failure
// yields an empty slice; callers treat that as "no hospitals found".
func (p *NEMCProvider) FindHospitals(ctx context.Context, lat, lon, radiusKm float64) []*entities.Hospital {
	url := fmt.Sprintf("%s%s?serviceKey=%s&WGS84_LON=%f&WGS84_LAT=%f&numOfRows=%d&pageNo=1",
		p.baseURL, hospitalListPath, p.apiKey, lon, lat, maxRows)
	if sido := geo.SidoCode(lat, lon); sido != "" {
		url += "&STAGE1=" + sido
	}

	body, err := p.fetchXML(ctx, p.listClient, url, "hospital_list")
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("hospital directory lookup failed")
		return nil
	}

	hospitals := make([]*entities.Hospital, 0, maxRows)
	for _, item := range extractItems(body) {
		h := &entities.Hospital{
			ID:           extractValue(item, "hpid"),
			Name:         extractValueCDATA(item, "dutyName"),
			Address:      extractValueCDATA(item, "dutyAddr"),
			Tel:          extractValue(item, "dutyTel1"),
			EmergencyTel: extractValue(item, "dutyTel3"),
			RegionName:   extractValue(item, "dgidIdName"),
			EmergencyOp:  extractValue(item, "dutyEryn"),
			Location: entities.Location{
				Latitude:  extractFloat(item, "wgs84Lat"),
				Longitude: extractFloat(item, "wgs84Lon"),
			},
		}
		if h.ID == "" || h.Location.Latitude == 0 || h.Location.Longitude == 0 {
			continue
		}
		h.DistanceKm = geo.DistanceKm(lat, lon, h.Location.Latitude, h.Location.Longitude)
		if h.DistanceKm > radiusKm {
			continue
		}
		hospitals = append(hospitals, h)
	}

	sort.Slice(hospitals, func(i, j int) bool {
		return hospitals[i].DistanceKm < hospitals[j].DistanceKm
	})
	return hospitals
}

// FetchBedStatus fetches real-time bed availability for each hospital id, in
// sequential batches with concurrent requests inside a batch. A failed id
// ends up with no map entry and does not disturb its siblings.
func (p *NEMCProvider) FetchBedStatus(ctx context.Context, hospitalIDs []string) map[string]entities.BedStatus {
	result := make(map[string]entities.BedStatus, len(hospitalIDs))
	var mu sync.Mutex

	for start := 0; start < len(hospitalIDs); start += bedStatusBatchSize {
		end := start + bedStatusBatchSize
		if end > len(hospitalIDs) {
			end = len(hospitalIDs)
		}

		var wg sync.WaitGroup
		for _, id := range hospitalIDs[start:end] {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				status, ok := p.fetchBedStatusOne(ctx, id)
				if !ok {
					return
				}
				mu.Lock()
				result[id] = status
				mu.Unlock()
			}(id)
		}
		wg.Wait()
	}
	return result
}

func (p *NEMCProvider) fetchBedStatusOne(ctx context.Context, hospitalID string) (entities.BedStatus, bool) {
	url := fmt.Sprintf("%s%s?serviceKey=%s&HPID=%s&numOfRows=1&pageNo=1",
		p.baseURL, bedStatusPath, p.apiKey, hospitalID)

	body, err := p.fetchXML(ctx, p.bedClient, url, "bed_status")
	if err != nil {
		observability.LoggerFromContext(ctx).Debug().Err(err).Str("hospital_id", hospitalID).Msg("bed status lookup failed")
		return entities.BedStatus{}, false
	}

	items := extractItems(body)
	if len(items) == 0 {
		return entities.BedStatus{}, false
	}
	item := items[0]
	return entities.BedStatus{
		EmergencyBeds:   extractInt(item, "hvec"),
		OperatingBeds:   extractInt(item, "hvoc"),
		NeuroICUBeds:    extractInt(item, "hvcc"),
		NeonatalICUBeds: extractInt(item, "hvncc"),
		GeneralBeds:     extractInt(item, "hvgc"),
		ICUBeds:         extractInt(item, "hvicc"),
		CT:              extractValue(item, "hvctayn"),
		MRI:             extractValue(item, "hvmriayn"),
		Angio:           extractValue(item, "hvangioayn"),
		Ventilator:      extractValue(item, "hvventiayn"),
		Ambulance:       extractValue(item, "hvamyn"),
	}, true
}

// FindPharmacies queries the pharmacy directory around the origin and
// returns pharmacies within radiusKm, nearest first. Fails soft like
// FindHospitals.
func (p *NEMCProvider) FindPharmacies(ctx context.Context, lat, lon, radiusKm float64) []*entities.Pharmacy {
	url := fmt.Sprintf("%s%s?serviceKey=%s&WGS84_LON=%f&WGS84_LAT=%f&numOfRows=%d&pageNo=1",
		p.baseURL, pharmacyListPath, p.apiKey, lon, lat, maxRows)

	body, err := p.fetchXML(ctx, p.listClient, url, "pharmacy_list")
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("pharmacy directory lookup failed")
		return nil
	}

	pharmacies := make([]*entities.Pharmacy, 0, maxRows)
	for _, item := range extractItems(body) {
		ph := &entities.Pharmacy{
			Name:    extractValueCDATA(item, "dutyName"),
			Address: extractValueCDATA(item, "dutyAddr"),
			Tel:     extractValue(item, "dutyTel1"),
			Location: entities.Location{
				Latitude:  extractFloat(item, "wgs84Lat"),
				Longitude: extractFloat(item, "wgs84Lon"),
			},
		}
		for day := 1; day <= 8; day++ {
			ph.OpenHours[day] = extractValue(item, fmt.Sprintf("dutyTime%ds", day))
			ph.CloseHours[day] = extractValue(item, fmt.Sprintf("dutyTime%dc", day))
		}
		if ph.Name == "" || ph.Location.Latitude == 0 || ph.Location.Longitude == 0 {
			continue
		}
		ph.DistanceKm = geo.DistanceKm(lat, lon, ph.Location.Latitude, ph.Location.Longitude)
		if ph.DistanceKm > radiusKm {
			continue
		}
		pharmacies = append(pharmacies, ph)
	}

	sort.Slice(pharmacies, func(i, j int) bool {
		return pharmacies[i].DistanceKm < pharmacies[j].DistanceKm
	})
	return pharmacies
}

func (p *NEMCProvider) fetchXML(ctx context.Context, client *http.Client, url, operation string) (string, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build directory request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := client.Do(req)
	if p.metrics != nil {
		p.metrics.RecordUpstreamRequest(ctx, "nemc", operation, time.Since(start), err == nil)
	}
	if err != nil {
		return "", fmt.Errorf("directory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("directory request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read directory response: %w", err)
	}
	return string(body), nil
}
