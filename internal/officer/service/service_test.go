package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"precinct/internal/officer"
	"precinct/internal/officer/store"
	"precinct/internal/session"
	id "precinct/pkg/domain"
	dErrors "precinct/pkg/domain-errors"
	"precinct/pkg/platform/audit"
	"precinct/pkg/requestcontext"
)

type recordedSession struct {
	officerID  id.OfficerID
	descriptor session.Descriptor
}

type stubSessions struct {
	recorded    []recordedSession
	deactivated []id.SessionID
	recordErr   error
}

func (s *stubSessions) Record(_ context.Context, officerID id.OfficerID, descriptor session.Descriptor) error {
	if s.recordErr != nil {
		return s.recordErr
	}
	s.recorded = append(s.recorded, recordedSession{officerID: officerID, descriptor: descriptor})
	return nil
}

func (s *stubSessions) Deactivate(_ context.Context, sessionID id.SessionID) error {
	s.deactivated = append(s.deactivated, sessionID)
	return nil
}

type stubTokens struct {
	issued int
}

func (t *stubTokens) GenerateAccessToken(id.OfficerID, id.SessionID, id.StationID, time.Duration) (string, string, error) {
	t.issued++
	return "signed-token", uuid.NewString(), nil
}

type stubRevoker struct {
	revoked []string
}

func (r *stubRevoker) Revoke(_ context.Context, jti string, _ time.Duration) error {
	r.revoked = append(r.revoked, jti)
	return nil
}

type stubAuditor struct {
	events []audit.Event
}

func (a *stubAuditor) Emit(_ context.Context, event audit.Event) {
	a.events = append(a.events, event)
}

func (a *stubAuditor) actions() []string {
	out := make([]string, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Action)
	}
	return out
}

type OfficerServiceSuite struct {
	suite.Suite

	store    *store.InMemory
	sessions *stubSessions
	tokens   *stubTokens
	revoker  *stubRevoker
	auditor  *stubAuditor
	service  *Service
	ctx      context.Context
	now      time.Time

	acct *officer.Officer
}

func TestOfficerServiceSuite(t *testing.T) {
	suite.Run(t, new(OfficerServiceSuite))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

const testPassword = "correct horse battery staple"

func (s *OfficerServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.sessions = &stubSessions{}
	s.tokens = &stubTokens{}
	s.revoker = &stubRevoker{}
	s.auditor = &stubAuditor{}
	logger := slog.New(slog.NewTextHandler(nopWriter{}, nil))
	s.service = New(s.store, s.sessions, s.tokens, s.revoker, s.auditor, logger, nil, 15*time.Minute)

	s.now = time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	s.Require().NoError(err)
	s.acct = &officer.Officer{
		ID:           id.OfficerID(uuid.New()),
		StationID:    id.StationID(uuid.New()),
		Name:         "Jane Doe",
		Username:     "jdoe",
		Email:        "jane@precinct.gov",
		BadgeNumber:  "PB-1042",
		Status:       officer.StatusActive,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    s.now,
		UpdatedAt:    s.now,
	}
	s.Require().NoError(s.store.Create(s.ctx, s.acct))
}

func (s *OfficerServiceSuite) descriptor() session.Descriptor {
	return session.Descriptor{
		SessionID:      id.SessionID(uuid.New()),
		OfficerEmail:   "jane@precinct.gov",
		IPAddress:      "1.2.3.4",
		DeviceInfo:     session.DeviceInfo{Browser: "Chrome", OS: "Windows", Device: "Desktop"},
		LoginTime:      s.now,
		LastActiveTime: s.now,
		IsActive:       true,
	}
}

func (s *OfficerServiceSuite) TestLoginSuccess() {
	descriptor := s.descriptor()
	result, err := s.service.Login(s.ctx, "jane@precinct.gov", testPassword, descriptor)
	s.Require().NoError(err)

	s.Equal("signed-token", result.Token)
	s.Equal(descriptor.SessionID, result.SessionID)
	s.Equal(int64(900), result.ExpiresIn)

	s.Require().Len(s.sessions.recorded, 1)
	s.Equal(s.acct.ID, s.sessions.recorded[0].officerID)
	s.Equal(1, s.tokens.issued)
	s.Contains(s.auditor.actions(), string(audit.EventSessionCreated))
}

func (s *OfficerServiceSuite) TestLoginWrongPassword() {
	_, err := s.service.Login(s.ctx, "jane@precinct.gov", "nope", s.descriptor())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Equal("invalid email or password", dErrors.GetMessage(err))

	s.Empty(s.sessions.recorded, "failed login must not record a session")
	s.Zero(s.tokens.issued, "failed login must not issue a token")
	s.Contains(s.auditor.actions(), string(audit.EventAuthFailed))
}

func (s *OfficerServiceSuite) TestLoginUnknownEmail() {
	_, err := s.service.Login(s.ctx, "ghost@precinct.gov", testPassword, s.descriptor())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	// same message as a bad password, account existence must not leak
	s.Equal("invalid email or password", dErrors.GetMessage(err))
}

func (s *OfficerServiceSuite) TestLoginSuspendedAccount() {
	s.acct.Status = officer.StatusSuspended
	s.Require().NoError(s.store.Update(s.ctx, s.acct))

	_, err := s.service.Login(s.ctx, "jane@precinct.gov", testPassword, s.descriptor())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Zero(s.tokens.issued)
}

func (s *OfficerServiceSuite) TestLogoutRevokesSessionAndToken() {
	sessionID := id.SessionID(uuid.New())
	ctx := requestcontext.WithOfficerID(s.ctx, s.acct.ID)
	ctx = requestcontext.WithSessionID(ctx, sessionID)
	ctx = requestcontext.WithTokenID(ctx, "jti-123")

	s.Require().NoError(s.service.Logout(ctx))
	s.Equal([]id.SessionID{sessionID}, s.sessions.deactivated)
	s.Equal([]string{"jti-123"}, s.revoker.revoked)
	s.Contains(s.auditor.actions(), string(audit.EventSessionRevoked))

	// logging out again is a no-op, not an error
	s.Require().NoError(s.service.Logout(ctx))
}

func (s *OfficerServiceSuite) TestGetProfile() {
	ctx := requestcontext.WithOfficerID(s.ctx, s.acct.ID)
	profile, err := s.service.GetProfile(ctx)
	s.Require().NoError(err)

	s.Equal(s.acct.ID, profile.OfficerID)
	s.Equal("Jane Doe", profile.OfficerName)
	s.Equal("PB-1042", profile.OfficerBadgeNumber)
}

func (s *OfficerServiceSuite) TestGetProfileUnauthenticated() {
	_, err := s.service.GetProfile(s.ctx)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *OfficerServiceSuite) TestCreateHashesPassword() {
	in := officer.CreateInput{
		StationID:   s.acct.StationID,
		Name:        "John Roe",
		Username:    "jroe",
		Email:       "john@precinct.gov",
		BadgeNumber: "PB-2001",
		JoiningDate: s.now,
		Password:    "another long password",
	}
	profile, err := s.service.Create(s.ctx, in)
	s.Require().NoError(err)
	s.Equal(officer.StatusActive, profile.OfficerStatus)

	stored, err := s.store.FindByID(s.ctx, profile.OfficerID)
	s.Require().NoError(err)
	s.NotEqual(in.Password, stored.PasswordHash)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(in.Password)))
}

func (s *OfficerServiceSuite) TestCreateDuplicateEmail() {
	in := officer.CreateInput{
		StationID:   s.acct.StationID,
		Name:        "Impostor",
		Email:       "jane@precinct.gov",
		BadgeNumber: "PB-3001",
		Password:    "whatever it takes",
	}
	_, err := s.service.Create(s.ctx, in)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *OfficerServiceSuite) TestUpdateAndDeactivate() {
	newName := "Jane Q. Doe"
	profile, err := s.service.Update(s.ctx, s.acct.ID, officer.UpdateInput{Name: &newName})
	s.Require().NoError(err)
	s.Equal(newName, profile.OfficerName)

	s.Require().NoError(s.service.Deactivate(s.ctx, s.acct.ID))
	_, err = s.service.GetProfile(requestcontext.WithOfficerID(s.ctx, s.acct.ID))
	s.Require().Error(err, "deactivated accounts disappear from lookups")

	// deactivating a missing officer is still fine
	s.Require().NoError(s.service.Deactivate(s.ctx, id.OfficerID(uuid.New())))
}
