package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"precinct/internal/crime"
	"precinct/internal/crime/store"
	id "precinct/pkg/domain"
	dErrors "precinct/pkg/domain-errors"
	"precinct/pkg/platform/audit"
	"precinct/pkg/requestcontext"
)

type stubRules struct {
	known map[id.RuleID]bool
}

func (r *stubRules) RuleExists(_ context.Context, ruleID id.RuleID) (bool, error) {
	return r.known[ruleID], nil
}

type stubAuditor struct {
	events []audit.Event
}

func (a *stubAuditor) Emit(_ context.Context, event audit.Event) {
	a.events = append(a.events, event)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

type CrimeServiceSuite struct {
	suite.Suite

	store   *store.InMemory
	rules   *stubRules
	auditor *stubAuditor
	service *Service
	ctx     context.Context
	now     time.Time

	officerID   id.OfficerID
	stationID   id.StationID
	partRule    id.RuleID
	typeRule    id.RuleID
	subtypeRule id.RuleID
}

func TestCrimeServiceSuite(t *testing.T) {
	suite.Run(t, new(CrimeServiceSuite))
}

func (s *CrimeServiceSuite) SetupTest() {
	s.partRule = id.RuleID(uuid.New())
	s.typeRule = id.RuleID(uuid.New())
	s.subtypeRule = id.RuleID(uuid.New())

	s.store = store.NewInMemory()
	s.rules = &stubRules{known: map[id.RuleID]bool{
		s.partRule: true, s.typeRule: true, s.subtypeRule: true,
	}}
	s.auditor = &stubAuditor{}
	logger := slog.New(slog.NewTextHandler(nopWriter{}, nil))
	s.service = New(s.store, s.rules, s.auditor, logger)

	s.now = time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	s.officerID = id.OfficerID(uuid.New())
	s.stationID = id.StationID(uuid.New())
	s.ctx = requestcontext.WithOfficerID(
		requestcontext.WithTime(context.Background(), s.now), s.officerID)
}

func (s *CrimeServiceSuite) create() *crime.Record {
	record, err := s.service.Create(s.ctx, crime.CreateInput{
		StationID:   s.stationID,
		PartRuleID:  s.partRule,
		TypeRuleID:  s.typeRule,
		Description: "Forced entry through rear window",
		Location:    "14 Baker St",
		OccurredAt:  s.now.Add(-2 * time.Hour),
	})
	s.Require().NoError(err)
	return record
}

func (s *CrimeServiceSuite) TestCreate() {
	record := s.create()

	s.False(record.ID.IsNil())
	s.Equal(crime.StatusOpen, record.Status)
	s.Equal(s.officerID, record.ReportedBy)
	s.Equal(s.now, record.CreatedAt)

	s.Require().Len(s.auditor.events, 1)
	s.Equal(string(audit.EventRecordCreated), s.auditor.events[0].Action)
}

func (s *CrimeServiceSuite) TestCreateUnauthenticated() {
	_, err := s.service.Create(context.Background(), crime.CreateInput{
		StationID:   s.stationID,
		PartRuleID:  s.partRule,
		TypeRuleID:  s.typeRule,
		Description: "x",
		OccurredAt:  s.now,
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *CrimeServiceSuite) TestCreateRejectsUnknownRule() {
	_, err := s.service.Create(s.ctx, crime.CreateInput{
		StationID:   s.stationID,
		PartRuleID:  s.partRule,
		TypeRuleID:  id.RuleID(uuid.New()),
		Description: "x",
		OccurredAt:  s.now,
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = s.service.Create(s.ctx, crime.CreateInput{
		StationID:     s.stationID,
		PartRuleID:    s.partRule,
		TypeRuleID:    s.typeRule,
		SubtypeRuleID: id.RuleID(uuid.New()),
		Description:   "x",
		OccurredAt:    s.now,
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	records, err := s.service.List(s.ctx, store.Filter{StationID: s.stationID})
	s.Require().NoError(err)
	s.Empty(records)
}

func (s *CrimeServiceSuite) TestCreateKeepsTaxonomyRefs() {
	record, err := s.service.Create(s.ctx, crime.CreateInput{
		StationID:     s.stationID,
		PartRuleID:    s.partRule,
		TypeRuleID:    s.typeRule,
		SubtypeRuleID: s.subtypeRule,
		Description:   "Forced entry through rear window",
		OccurredAt:    s.now.Add(-time.Hour),
	})
	s.Require().NoError(err)

	found, err := s.service.Get(s.ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(s.partRule, found.PartRuleID)
	s.Equal(s.typeRule, found.TypeRuleID)
	s.Equal(s.subtypeRule, found.SubtypeRuleID)
}

func (s *CrimeServiceSuite) TestUpdateLifecycle() {
	record := s.create()

	assignee := id.OfficerID(uuid.New())
	investigating := crime.StatusUnderInvestigation
	updated, err := s.service.Update(s.ctx, record.ID, crime.UpdateInput{
		Status:     &investigating,
		AssignedTo: &assignee,
	})
	s.Require().NoError(err)
	s.Equal(crime.StatusUnderInvestigation, updated.Status)
	s.Equal(assignee, updated.AssignedTo)

	closed := crime.StatusClosed
	_, err = s.service.Update(s.ctx, record.ID, crime.UpdateInput{Status: &closed})
	s.Require().NoError(err)

	// closed records are immutable
	desc := "amended description"
	_, err = s.service.Update(s.ctx, record.ID, crime.UpdateInput{Description: &desc})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *CrimeServiceSuite) TestListFiltersByStatus() {
	first := s.create()
	s.create()

	closed := crime.StatusClosed
	_, err := s.service.Update(s.ctx, first.ID, crime.UpdateInput{Status: &closed})
	s.Require().NoError(err)

	open, err := s.service.List(s.ctx, store.Filter{Status: crime.StatusOpen})
	s.Require().NoError(err)
	s.Len(open, 1)

	all, err := s.service.List(s.ctx, store.Filter{StationID: s.stationID})
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *CrimeServiceSuite) TestDeleteIsIdempotent() {
	record := s.create()

	s.Require().NoError(s.service.Delete(s.ctx, record.ID))
	s.Require().NoError(s.service.Delete(s.ctx, record.ID))

	_, err := s.service.Get(s.ctx, record.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
