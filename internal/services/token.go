package services

import (
	"context"
	"errors"

	"blogreact/internal/db"
	"blogreact/internal/errs"
	"blogreact/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims are the claims of an access token. The user id travels in
// "_id"; "sub" is accepted when "_id" is absent.
type AccessClaims struct {
	UserID string `json:"_id,omitempty"`
	jwt.RegisteredClaims
}

type UserFinder interface {
	FindPublicByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RevocationList reports tokens invalidated before their expiry.
type RevocationList interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// TokenVerifier turns a bearer token into the user it was issued to.
type TokenVerifier struct {
	secret  []byte
	users   UserFinder
	revoked RevocationList
	parser  *jwt.Parser
}

// NewTokenVerifier builds a verifier for HMAC-signed tokens. revoked may be nil.
func NewTokenVerifier(secret string, users UserFinder, revoked RevocationList) *TokenVerifier {
	return &TokenVerifier{
		secret:  []byte(secret),
		users:   users,
		revoked: revoked,
		parser:  jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})),
	}
}

func (v *TokenVerifier) Verify(ctx context.Context, raw string) (*models.User, error) {
	if raw == "" {
		return nil, errs.Unauthorized("unauthorized request")
	}

	claims := &AccessClaims{}
	if _, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}); err != nil {
		return nil, classifyTokenError(err)
	}

	subject := claims.UserID
	if subject == "" {
		subject = claims.Subject
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnauthorized, "invalid token", err)
	}

	if v.revoked != nil && claims.ID != "" {
		revoked, err := v.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, errs.Internal("an error occurred while verifying the token", err)
		}
		if revoked {
			return nil, errs.Unauthorized("token has been revoked")
		}
	}

	user, err := v.users.FindPublicByID(ctx, userID)
	if errors.Is(err, db.ErrUserNotFound) {
		return nil, errs.Unauthorized("invalid access token")
	}
	if err != nil {
		return nil, errs.Internal("an error occurred while verifying the token", err)
	}
	return user, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return errs.Wrap(errs.KindForbidden, "token has expired, please log in again", err)
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenInvalidClaims):
		return errs.Wrap(errs.KindUnauthorized, "invalid token", err)
	default:
		return errs.Internal("an error occurred while verifying the token", err)
	}
}
