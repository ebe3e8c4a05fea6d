package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	dErrors "precinct/pkg/domain-errors"
)

// IPLookup resolves the caller's public IP address.
type IPLookup interface {
	Lookup(ctx context.Context) (string, error)
}

// HTTPIPClient queries an IP-echo service (api.ipify.org by default).
type HTTPIPClient struct {
	url    string
	client *http.Client
}

func NewHTTPIPClient(url string, client *http.Client) *HTTPIPClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPIPClient{url: url, client: client}
}

func (c *HTTPIPClient) Lookup(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("build ip lookup request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "ip lookup failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", dErrors.New(dErrors.CodeUnavailable, fmt.Sprintf("ip lookup returned status %d", resp.StatusCode))
	}

	var body struct {
		IP string `json:"ip"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "ip lookup returned malformed body")
	}
	if body.IP == "" {
		return "", dErrors.New(dErrors.CodeUnavailable, "ip lookup returned empty address")
	}
	return body.IP, nil
}
