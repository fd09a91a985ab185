package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "unit-test-secret"

func signLegacy(t *testing.T, claims LegacyClaims, secret string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestValidateLegacyToken_RoundTrip(t *testing.T) {
	token := signLegacy(t, LegacyClaims{
		UserID: "user-42",
		Email:  "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "clipforge-api",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, testSecret)

	claims, err := ValidateLegacyToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateLegacyToken: %v", err)
	}
	if claims.UserID != "user-42" {
		t.Errorf("UserID = %q, want user-42", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
}

func TestValidateLegacyToken_WrongSecret(t *testing.T) {
	token := signLegacy(t, LegacyClaims{UserID: "user-42"}, testSecret)

	if _, err := ValidateLegacyToken(token, "a-different-secret"); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}

func TestValidateLegacyToken_Expired(t *testing.T) {
	token := signLegacy(t, LegacyClaims{
		UserID: "user-42",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}, testSecret)

	if _, err := ValidateLegacyToken(token, testSecret); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestValidateLegacyToken_NonHMACRejected(t *testing.T) {
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, LegacyClaims{UserID: "user-42"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	if _, err := ValidateLegacyToken(unsigned, testSecret); err == nil {
		t.Fatal("token without an HS* signature must be rejected")
	}
}
