package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"precinct/internal/session"
	"precinct/internal/session/store"
	id "precinct/pkg/domain"
	dErrors "precinct/pkg/domain-errors"
	"precinct/pkg/requestcontext"
)

type flakyCache struct {
	puts    int
	deletes int
	fail    bool
}

func (c *flakyCache) Put(_ context.Context, _ *session.Record) error {
	c.puts++
	if c.fail {
		return errors.New("redis down")
	}
	return nil
}

func (c *flakyCache) Delete(_ context.Context, _ id.SessionID) error {
	c.deletes++
	if c.fail {
		return errors.New("redis down")
	}
	return nil
}

type ServiceSuite struct {
	suite.Suite
	store   *store.InMemory
	cache   *flakyCache
	service *Service
	ctx     context.Context
	now     time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.cache = &flakyCache{}
	logger := slog.New(slog.NewTextHandler(nopWriter{}, nil))
	s.service = New(s.store, s.cache, logger, nil)
	s.now = time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func (s *ServiceSuite) descriptor() session.Descriptor {
	return session.Descriptor{
		SessionID:      id.SessionID(uuid.New()),
		OfficerEmail:   "Jane@Precinct.gov",
		IPAddress:      "1.2.3.4",
		DeviceInfo:     session.DeviceInfo{Browser: "Chrome", OS: "Windows", Device: "Desktop"},
		City:           "Pune",
		Country:        "India",
		LoginTime:      s.now,
		LastActiveTime: s.now,
		IsActive:       true,
	}
}

func (s *ServiceSuite) TestRecordPersistsAndCaches() {
	officerID := id.OfficerID(uuid.New())
	descriptor := s.descriptor()
	ctx := requestcontext.WithClientMetadata(s.ctx, "1.2.3.4", "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0")

	s.Require().NoError(s.service.Record(ctx, officerID, descriptor))

	record, err := s.store.FindByID(s.ctx, descriptor.SessionID)
	s.Require().NoError(err)
	s.Equal(officerID, record.OfficerID)
	s.Equal("jane@precinct.gov", record.Descriptor.OfficerEmail, "email must be normalized before persisting")
	s.Equal("Mozilla/5.0 (Windows NT 10.0) Chrome/120.0", record.UserAgent)
	s.Equal(1, s.cache.puts)
}

func (s *ServiceSuite) TestRecordRejectsInvalidDescriptor() {
	descriptor := s.descriptor()
	descriptor.SessionID = id.SessionID{}

	err := s.service.Record(s.ctx, id.OfficerID(uuid.New()), descriptor)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestRecordRequiresOfficer() {
	err := s.service.Record(s.ctx, id.OfficerID{}, s.descriptor())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestRecordSurvivesCacheFailure() {
	s.cache.fail = true
	err := s.service.Record(s.ctx, id.OfficerID(uuid.New()), s.descriptor())
	s.NoError(err, "the store is authoritative, cache failures must not fail the write")
}

func (s *ServiceSuite) TestHistoryFlagsCurrentSession() {
	officerID := id.OfficerID(uuid.New())

	first := s.descriptor()
	second := s.descriptor()
	second.LoginTime = s.now.Add(time.Hour)
	second.LastActiveTime = second.LoginTime

	s.Require().NoError(s.service.Record(s.ctx, officerID, first))
	s.Require().NoError(s.service.Record(s.ctx, officerID, second))

	summaries, err := s.service.History(s.ctx, officerID, first.SessionID)
	s.Require().NoError(err)
	s.Require().Len(summaries, 2)

	s.Equal(second.SessionID, summaries[0].SessionID)
	s.False(summaries[0].IsCurrent)
	s.Equal(first.SessionID, summaries[1].SessionID)
	s.True(summaries[1].IsCurrent)
	s.Equal("Pune, India", summaries[0].Location)
}

func (s *ServiceSuite) TestTouchAdvancesLastActive() {
	officerID := id.OfficerID(uuid.New())
	descriptor := s.descriptor()
	s.Require().NoError(s.service.Record(s.ctx, officerID, descriptor))

	later := s.now.Add(30 * time.Minute)
	s.service.Touch(requestcontext.WithTime(context.Background(), later), descriptor.SessionID)

	record, err := s.store.FindByID(s.ctx, descriptor.SessionID)
	s.Require().NoError(err)
	s.Equal(later, record.Descriptor.LastActiveTime)
}

func (s *ServiceSuite) TestTouchUnknownSessionIsSilent() {
	// must not panic or log-and-return an error; tokens can outlive rows
	s.service.Touch(s.ctx, id.SessionID(uuid.New()))
}

func (s *ServiceSuite) TestDeactivateIsIdempotent() {
	officerID := id.OfficerID(uuid.New())
	descriptor := s.descriptor()
	s.Require().NoError(s.service.Record(s.ctx, officerID, descriptor))

	s.Require().NoError(s.service.Deactivate(s.ctx, descriptor.SessionID))
	s.Require().NoError(s.service.Deactivate(s.ctx, descriptor.SessionID))
	s.Require().NoError(s.service.Deactivate(s.ctx, id.SessionID(uuid.New())), "unknown sessions deactivate cleanly")

	record, err := s.store.FindByID(s.ctx, descriptor.SessionID)
	s.Require().NoError(err)
	s.False(record.Descriptor.IsActive)
	s.GreaterOrEqual(s.cache.deletes, 2)
}
