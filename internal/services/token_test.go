package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"blogreact/internal/db"
	"blogreact/internal/db/dbtest"
	"blogreact/internal/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

type fakeRevocations struct {
	revoked map[string]bool
	err     error
}

func (f *fakeRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[jti], nil
}

func signToken(t *testing.T, secret string, claims AccessClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func claimsFor(userID uuid.UUID, ttl time.Duration) AccessClaims {
	return AccessClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
}

func TestTokenVerifier(t *testing.T) {
	conn := dbtest.Open(t)
	user := dbtest.CreateUser(t, conn, "reader@example.com")
	revocations := &fakeRevocations{revoked: map[string]bool{}}
	verifier := NewTokenVerifier(testSecret, db.NewUserStore(conn), revocations)
	ctx := context.Background()

	valid := claimsFor(user.ID, time.Hour)
	got, err := verifier.Verify(ctx, signToken(t, testSecret, valid))
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if got.ID != user.ID || got.Email != "reader@example.com" || got.Password != "" {
		t.Errorf("Unexpected user %+v", got)
	}

	subjectOnly := claimsFor(user.ID, time.Hour)
	subjectOnly.UserID = ""
	subjectOnly.Subject = user.ID.String()
	if _, err := verifier.Verify(ctx, signToken(t, testSecret, subjectOnly)); err != nil {
		t.Errorf("Expected sub fallback to verify, got %v", err)
	}

	revokedClaims := claimsFor(user.ID, time.Hour)
	revocations.revoked[revokedClaims.ID] = true

	none := jwt.NewWithClaims(jwt.SigningMethodNone, claimsFor(user.ID, time.Hour))
	noneToken, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := []struct {
		name  string
		token string
		kind  errs.Kind
	}{
		{"missing", "", errs.KindUnauthorized},
		{"malformed", "not-a-token", errs.KindUnauthorized},
		{"wrong secret", signToken(t, "other-secret", valid), errs.KindUnauthorized},
		{"alg none", noneToken, errs.KindUnauthorized},
		{"expired", signToken(t, testSecret, claimsFor(user.ID, -time.Minute)), errs.KindForbidden},
		{"unknown user", signToken(t, testSecret, claimsFor(uuid.New(), time.Hour)), errs.KindUnauthorized},
		{"bad user id", signToken(t, testSecret, AccessClaims{UserID: "42"}), errs.KindUnauthorized},
		{"revoked", signToken(t, testSecret, revokedClaims), errs.KindUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := verifier.Verify(ctx, tc.token)
			if err == nil {
				t.Fatalf("Expected error")
			}
			if got := errs.KindOf(err); got != tc.kind {
				t.Errorf("Expected %v, got %v (%v)", tc.kind, got, err)
			}
		})
	}
}

func TestTokenVerifierRevocationBackendFailure(t *testing.T) {
	conn := dbtest.Open(t)
	user := dbtest.CreateUser(t, conn, "reader@example.com")
	verifier := NewTokenVerifier(testSecret, db.NewUserStore(conn), &fakeRevocations{err: errors.New("redis down")})

	_, err := verifier.Verify(context.Background(), signToken(t, testSecret, claimsFor(user.ID, time.Hour)))
	if errs.KindOf(err) != errs.KindInternal {
		t.Fatalf("Expected internal error, got %v", err)
	}
}

func TestTokenVerifierWithoutRevocationList(t *testing.T) {
	conn := dbtest.Open(t)
	user := dbtest.CreateUser(t, conn, "reader@example.com")
	verifier := NewTokenVerifier(testSecret, db.NewUserStore(conn), nil)

	if _, err := verifier.Verify(context.Background(), signToken(t, testSecret, claimsFor(user.ID, time.Hour))); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
}
