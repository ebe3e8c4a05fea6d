package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	dErrors "precinct/pkg/domain-errors"
)

// Geo is the coarse IP-geolocation result.
type Geo struct {
	City        string   `json:"city"`
	CountryName string   `json:"country_name"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Org         string   `json:"org"`
	Region      string   `json:"region"`
	Timezone    string   `json:"timezone"`
	Postal      string   `json:"postal"`
}

// GeoLookup resolves coarse geolocation for a public IP.
type GeoLookup interface {
	Lookup(ctx context.Context, ip string) (Geo, error)
}

// HTTPGeoClient queries an ipapi.co-compatible service:
// GET {base}/{ip}/json/ returns the Geo fields.
type HTTPGeoClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPGeoClient(baseURL string, client *http.Client) *HTTPGeoClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPGeoClient{baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

func (c *HTTPGeoClient) Lookup(ctx context.Context, ip string) (Geo, error) {
	url := fmt.Sprintf("%s/%s/json/", c.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Geo{}, fmt.Errorf("build geo lookup request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Geo{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "geolocation lookup failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Geo{}, dErrors.New(dErrors.CodeUnavailable, fmt.Sprintf("geolocation lookup returned status %d", resp.StatusCode))
	}

	var geo Geo
	if err := json.NewDecoder(resp.Body).Decode(&geo); err != nil {
		return Geo{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "geolocation lookup returned malformed body")
	}
	return geo, nil
}
