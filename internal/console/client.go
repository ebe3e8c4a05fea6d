// Package console is the Go rendition of the records-desk client: local
// storage, an authenticated REST client, the auth state container, and the
// route guard.
package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"precinct/internal/console/storage"
	"precinct/internal/session"
	id "precinct/pkg/domain"
	dErrors "precinct/pkg/domain-errors"
	"precinct/pkg/platform/httputil"
	"precinct/pkg/platform/sentinel"
)

const apiPrefix = "/api/v1"

// Enricher assembles and locally persists the session descriptor for one
// login attempt.
type Enricher interface {
	CreateSession(ctx context.Context, email string) (session.Descriptor, error)
}

// bearerTransport injects the stored token on every request. A missing token
// sends the request unauthenticated; the server decides what that means.
type bearerTransport struct {
	store storage.Store
	next  http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.store.Get(storage.KeyAuthToken)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, fmt.Errorf("read stored token: %w", err)
	}
	if token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return t.next.RoundTrip(req)
}

// Client talks to the precinct backend. All responses use the uniform
// envelope; a non-"success" status becomes an error carrying the backend
// message verbatim.
type Client struct {
	baseURL  string
	http     *http.Client
	store    storage.Store
	enricher Enricher
	logger   *slog.Logger
}

// NewClient builds a Client. The underlying transport of httpClient is
// wrapped with the bearer interceptor; pass nil to use http.DefaultTransport.
func NewClient(baseURL string, httpClient *http.Client, store storage.Store, enricher Enricher, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	next := httpClient.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	wrapped := *httpClient
	wrapped.Transport = &bearerTransport{store: store, next: next}

	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		http:     &wrapped,
		store:    store,
		enricher: enricher,
		logger:   logger,
	}
}

// DescriptorWriter adapts a storage.Store to the enrichment workflow's
// persistence interface: each login attempt's descriptor overwrites the
// previous one under the fixed key.
type DescriptorWriter struct {
	Store storage.Store
}

func (w DescriptorWriter) PutDescriptor(descriptor session.Descriptor) error {
	data, err := json.Marshal(descriptor)
	if err != nil {
		return fmt.Errorf("encode session descriptor: %w", err)
	}
	return w.Store.Set(storage.KeySessionDescriptor, string(data))
}

type loginRequest struct {
	Email       string             `json:"email"`
	Password    string             `json:"password"`
	SessionInfo session.Descriptor `json:"sessionInfo"`
}

// LoginResult mirrors the backend's login payload.
type LoginResult struct {
	Token     string       `json:"token"`
	SessionID id.SessionID `json:"session_id"`
	ExpiresIn int64        `json:"expires_in"`
}

// Login runs the enrichment workflow, posts the credentials with the
// descriptor, and persists the token on success. On failure no token is
// written and the backend's message is returned as the error.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	descriptor, err := c.enricher.CreateSession(ctx, email)
	if err != nil {
		return nil, err
	}

	var result LoginResult
	err = c.do(ctx, http.MethodPost, "/police-officers/login", loginRequest{
		Email:       email,
		Password:    password,
		SessionInfo: descriptor,
	}, &result)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(storage.KeyAuthToken, result.Token); err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}
	return &result, nil
}

// Logout tells the backend to revoke the session, then clears local state
// regardless of the outcome. Idempotent.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/police-officers/logout", nil, nil); err != nil {
		// local cleanup still happens; a dead server must not trap the user
		c.logger.WarnContext(ctx, "server logout failed, clearing local state anyway", "error", err)
	}
	if err := c.store.Delete(storage.KeyAuthToken); err != nil {
		return err
	}
	return c.store.Delete(storage.KeySessionDescriptor)
}

// Profile mirrors the backend's officer profile payload.
type Profile struct {
	OfficerID          string `json:"officer_id"`
	StationID          string `json:"station_id"`
	OfficerName        string `json:"officer_name"`
	OfficerUsername    string `json:"officer_username"`
	OfficerEmail       string `json:"officer_email"`
	OfficerDesignation string `json:"officer_designation"`
	OfficerBadgeNumber string `json:"officer_badge_number"`
	OfficerMobile      string `json:"officer_mobile_number"`
	OfficerStatus      string `json:"officer_status"`
	IsActive           bool   `json:"is_active"`
}

// GetProfile fetches the authenticated officer's profile.
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/police-officers/get-officer-profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// CreateOfficer provisions a new officer account.
func (c *Client) CreateOfficer(ctx context.Context, in any) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodPost, "/police-officers/create-officer", in, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SessionHistory lists the officer's sessions, newest first.
func (c *Client) SessionHistory(ctx context.Context) ([]session.Summary, error) {
	var summaries []session.Summary
	if err := c.do(ctx, http.MethodGet, "/sessions/history", nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// CreateCrimeRecord files a crime report.
func (c *Client) CreateCrimeRecord(ctx context.Context, in any, out any) error {
	return c.do(ctx, http.MethodPost, "/crime-records", in, out)
}

// ListCrimeRecords lists crime reports.
func (c *Client) ListCrimeRecords(ctx context.Context, out any) error {
	return c.do(ctx, http.MethodGet, "/crime-records", nil, out)
}

// CreateApplication files an application.
func (c *Client) CreateApplication(ctx context.Context, in any, out any) error {
	return c.do(ctx, http.MethodPost, "/applications", in, out)
}

// ListApplications lists applications.
func (c *Client) ListApplications(ctx context.Context, out any) error {
	return c.do(ctx, http.MethodGet, "/applications", nil, out)
}

// ListDataRules lists taxonomy rules.
func (c *Client) ListDataRules(ctx context.Context, out any) error {
	return c.do(ctx, http.MethodGet, "/data-rules", nil, out)
}

// do performs one round trip and unwraps the envelope. A status other than
// "success" is returned as a domain error carrying the backend message.
func (c *Client) do(ctx context.Context, method, path string, in any, out any) error {
	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "request failed")
	}
	defer resp.Body.Close()

	var envelope struct {
		Status  string          `json:"status"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "malformed response body")
	}

	if envelope.Status != httputil.StatusSuccess {
		return dErrors.New(codeForHTTPStatus(resp.StatusCode), envelope.Message)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "malformed response data")
		}
	}
	return nil
}

func codeForHTTPStatus(status int) dErrors.Code {
	switch status {
	case http.StatusBadRequest:
		return dErrors.CodeBadRequest
	case http.StatusUnauthorized:
		return dErrors.CodeUnauthorized
	case http.StatusForbidden:
		return dErrors.CodeForbidden
	case http.StatusNotFound:
		return dErrors.CodeNotFound
	case http.StatusConflict:
		return dErrors.CodeConflict
	case http.StatusGatewayTimeout:
		return dErrors.CodeTimeout
	case http.StatusServiceUnavailable:
		return dErrors.CodeUnavailable
	default:
		return dErrors.CodeInternal
	}
}
