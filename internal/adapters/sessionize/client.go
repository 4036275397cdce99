package sessionize

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"conferencehub/internal/domain"
)

// DefaultBaseURL is the Sessionize API host used when the source is
// addressed by API key.
const DefaultBaseURL = "https://sessionize.com"

type httpFetcher struct {
	client  *http.Client
	baseURL string
}

// NewHTTPFetcher returns a fetcher that calls the Sessionize API.
// baseURL overrides the API host (used in tests); pass "" for the default.
func NewHTTPFetcher(client *http.Client, baseURL string) domain.ScheduleFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &httpFetcher{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (f *httpFetcher) GetSpeakers(ctx context.Context, src *domain.SynchronizationSource) ([]domain.SessionizeSpeaker, error) {
	var speakers []domain.SessionizeSpeaker
	if err := f.getJSON(ctx, src, "Speakers", &speakers); err != nil {
		return nil, err
	}
	return speakers, nil
}

func (f *httpFetcher) GetScheduleGrid(ctx context.Context, src *domain.SynchronizationSource) (domain.SessionizeGrid, error) {
	var grid domain.SessionizeGrid
	if err := f.getJSON(ctx, src, "GridSmart", &grid); err != nil {
		return nil, err
	}
	return grid, nil
}

// endpointURL resolves the view endpoint for the source: API-key sources hit
// {base}/api/v2/{key}/view/{view}, URL sources use the stored URL as the API
// root and append /view/{view}.
func (f *httpFetcher) endpointURL(src *domain.SynchronizationSource, view string) (string, error) {
	if !src.Configured() {
		return "", fmt.Errorf("%w: synchronization source not configured", domain.ErrInvalidInput)
	}
	if src.APIKey != "" {
		return fmt.Sprintf("%s/api/v2/%s/view/%s", f.baseURL, src.APIKey, view), nil
	}
	return fmt.Sprintf("%s/view/%s", strings.TrimSuffix(src.URL, "/"), view), nil
}

func (f *httpFetcher) getJSON(ctx context.Context, src *domain.SynchronizationSource, view string, dest any) error {
	url, err := f.endpointURL(src, view)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch from sessionize: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sessionize api returned status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode sessionize response: %w", err)
	}
	return nil
}
