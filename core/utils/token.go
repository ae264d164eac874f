package utils

import (
	"time"

	"meetpoll-api/core/errors"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are embedded in the organizer token issued at meeting creation.
// The token authorizes management operations (deleting participants or the
// meeting itself) and is scoped to a single meeting.
type TokenClaims struct {
	MeetingID string `json:"meeting_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

const RoleOrganizer = "organizer"

// GenerateOrganizerToken mints a signed token for the meeting's organizer
func GenerateOrganizerToken(meetingID string, secret string, ttl time.Duration) (string, error) {
	claims := &TokenClaims{
		MeetingID: meetingID,
		Role:      RoleOrganizer,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseOrganizerToken verifies the token signature and expiry
func ParseOrganizerToken(tokenString string, secret string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "Unexpected signing method", nil)
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrTokenExpired, "Invalid or expired token", err)
	}
	if !token.Valid || claims.Role != RoleOrganizer {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid organizer token", nil)
	}
	return claims, nil
}
