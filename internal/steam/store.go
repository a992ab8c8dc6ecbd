package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"blacksys/internal/textutil"
)

// StoreClient looks up app names from the Steam store API.
type StoreClient struct {
	baseURL string
	client  *http.Client
}

// NewStoreClient builds a client for the appdetails endpoint at baseURL.
func NewStoreClient(baseURL string, timeout time.Duration) *StoreClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &StoreClient{
		baseURL: strings.TrimSpace(baseURL),
		client:  &http.Client{Timeout: timeout},
	}
}

type appDetails struct {
	Success bool `json:"success"`
	Data    struct {
		Name string `json:"name"`
	} `json:"data"`
}

// AppName returns the store name of appID, cleaned for use as a folder name.
func (c *StoreClient) AppName(ctx context.Context, appID string) (string, error) {
	if !ValidAppID(appID) {
		return "", fmt.Errorf("app id %q must be numeric", appID)
	}
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse store url: %w", err)
	}
	query := endpoint.Query()
	query.Set("appids", appID)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("build store request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("store request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("store request: unexpected status %d", resp.StatusCode)
	}

	var payload map[string]appDetails
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode store response: %w", err)
	}
	details, ok := payload[appID]
	if !ok || !details.Success {
		return "", fmt.Errorf("store has no details for app %s", appID)
	}
	name := textutil.SanitizeFileName(details.Data.Name)
	if name == "" {
		return "", fmt.Errorf("store returned an empty name for app %s", appID)
	}
	return name, nil
}
