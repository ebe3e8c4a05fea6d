package jwtauth

import (
	id "precinct/pkg/domain"
	dErrors "precinct/pkg/domain-errors"
	authmw "precinct/pkg/platform/middleware/auth"
)

// MiddlewareAdapter converts jwtauth claims into the shape the auth middleware
// expects, parsing the string IDs back into typed UUIDs at the trust boundary.
type MiddlewareAdapter struct {
	service *Service
}

func NewMiddlewareAdapter(service *Service) *MiddlewareAdapter {
	return &MiddlewareAdapter{service: service}
}

func (a *MiddlewareAdapter) ValidateToken(tokenString string) (*authmw.TokenClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	officerID, err := id.ParseOfficerID(claims.OfficerID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	sessionID, err := id.ParseSessionID(claims.SessionID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	stationID, err := id.ParseStationID(claims.StationID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	return &authmw.TokenClaims{
		OfficerID: officerID,
		SessionID: sessionID,
		StationID: stationID,
		JTI:       claims.ID,
	}, nil
}
