package enrich

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"precinct/internal/session"
	dErrors "precinct/pkg/domain-errors"
	"precinct/pkg/requestcontext"
)

type descriptorRecorder struct {
	mu         sync.Mutex
	descriptor *session.Descriptor
	failWith   error
}

func (r *descriptorRecorder) PutDescriptor(descriptor session.Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	r.descriptor = &descriptor
	return nil
}

func (r *descriptorRecorder) last() *session.Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.descriptor
}

type EnricherSuite struct {
	suite.Suite

	ipServer  *httptest.Server
	geoServer *httptest.Server
	store     *descriptorRecorder
	logger    *slog.Logger
}

func TestEnricherSuite(t *testing.T) {
	suite.Run(t, new(EnricherSuite))
}

func (s *EnricherSuite) SetupTest() {
	s.ipServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ip":"1.2.3.4"}`))
	}))
	s.geoServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/1.2.3.4/json/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"city":"Pune","country_name":"India","latitude":10,"longitude":20,"org":"Example ISP","timezone":"Asia/Kolkata"}`))
	}))
	s.store = &descriptorRecorder{}
	s.logger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))
}

func (s *EnricherSuite) TearDownTest() {
	s.ipServer.Close()
	s.geoServer.Close()
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func (s *EnricherSuite) newEnricher(userAgent string, opts ...Option) *Enricher {
	return New(
		NewHTTPIPClient(s.ipServer.URL, s.ipServer.Client()),
		NewHTTPGeoClient(s.geoServer.URL, s.geoServer.Client()),
		s.store,
		userAgent,
		s.logger,
		opts...,
	)
}

const windowsChromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func (s *EnricherSuite) TestCreateSessionFullEnrichment() {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	descriptor, err := s.newEnricher(windowsChromeUA).CreateSession(ctx, "  Jane.Doe@precinct.gov ")
	s.Require().NoError(err)

	s.Equal("1.2.3.4", descriptor.IPAddress)
	s.Equal("Chrome", descriptor.DeviceInfo.Browser)
	s.Equal("Windows", descriptor.DeviceInfo.OS)
	s.Equal("Desktop", descriptor.DeviceInfo.Device)
	s.Require().NotNil(descriptor.Latitude)
	s.Require().NotNil(descriptor.Longitude)
	s.InDelta(10, *descriptor.Latitude, 0.0001)
	s.InDelta(20, *descriptor.Longitude, 0.0001)
	s.Equal("Pune", descriptor.City)
	s.Equal("India", descriptor.Country)
	s.Equal("jane.doe@precinct.gov", descriptor.OfficerEmail)
	s.Equal(now, descriptor.LoginTime)
	s.Equal(now, descriptor.LastActiveTime)
	s.True(descriptor.IsActive)

	// session id is a real UUID, not a placeholder
	_, err = uuid.Parse(descriptor.SessionID.String())
	s.NoError(err)

	persisted := s.store.last()
	s.Require().NotNil(persisted)
	s.Equal(descriptor, *persisted)
}

func (s *EnricherSuite) TestCreateSessionIPLookupDownFallsBack() {
	s.ipServer.Close()
	s.ipServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	descriptor, err := s.newEnricher(windowsChromeUA).CreateSession(context.Background(), "jane@precinct.gov")
	s.Require().NoError(err)

	s.Empty(descriptor.IPAddress)
	s.Nil(descriptor.Latitude)
	s.Nil(descriptor.Longitude)
	s.Empty(descriptor.City)
	// device classification does not depend on the network
	s.Equal("Chrome", descriptor.DeviceInfo.Browser)
	s.NotNil(s.store.last())
}

func (s *EnricherSuite) TestCreateSessionGeoDownFallsBack() {
	s.geoServer.Close()
	s.geoServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	descriptor, err := s.newEnricher(windowsChromeUA).CreateSession(context.Background(), "jane@precinct.gov")
	s.Require().NoError(err)

	s.Equal("1.2.3.4", descriptor.IPAddress)
	s.Nil(descriptor.Latitude)
	s.Nil(descriptor.Longitude)
	s.Empty(descriptor.Country)
}

func (s *EnricherSuite) TestCreateSessionFailFastAbortsOnIPFailure() {
	s.ipServer.Close()
	s.ipServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := s.newEnricher(windowsChromeUA, WithFailFast()).CreateSession(context.Background(), "jane@precinct.gov")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.Nil(s.store.last(), "nothing may be persisted when the workflow aborts")
}

func (s *EnricherSuite) TestCreateSessionFailFastAbortsOnGeoFailure() {
	s.geoServer.Close()
	s.geoServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := s.newEnricher(windowsChromeUA, WithFailFast()).CreateSession(context.Background(), "jane@precinct.gov")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.Nil(s.store.last())
}

func (s *EnricherSuite) TestCreateSessionStoreFailure() {
	s.store.failWith = errors.New("disk full")

	_, err := s.newEnricher(windowsChromeUA).CreateSession(context.Background(), "jane@precinct.gov")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *EnricherSuite) TestCreateSessionStepTimeout() {
	s.ipServer.Close()
	slow := make(chan struct{})
	s.ipServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-slow:
		case <-r.Context().Done():
		}
	}))
	defer close(slow)

	enricher := s.newEnricher(windowsChromeUA, WithStepTimeout(20*time.Millisecond))
	descriptor, err := enricher.CreateSession(context.Background(), "jane@precinct.gov")
	s.Require().NoError(err, "a slow lookup degrades the descriptor, it does not block login")
	s.Empty(descriptor.IPAddress)
}

func (s *EnricherSuite) TestCreateSessionSupersedesPrevious() {
	enricher := s.newEnricher(windowsChromeUA)

	first, err := enricher.CreateSession(context.Background(), "jane@precinct.gov")
	s.Require().NoError(err)
	second, err := enricher.CreateSession(context.Background(), "jane@precinct.gov")
	s.Require().NoError(err)

	s.NotEqual(first.SessionID, second.SessionID)
	persisted := s.store.last()
	s.Require().NotNil(persisted)
	s.Equal(second.SessionID, persisted.SessionID)
}
