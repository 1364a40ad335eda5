package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/orkestra-ventures/orkestra/internal/app/system/auth"
)

func TestToken_RoundTrip(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	tok, err := auth.IssueToken([]byte(testSecret), 42, "sess-1", exp)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	claims, err := auth.ParseToken([]byte(testSecret), tok)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.AdminID != 42 {
		t.Errorf("AdminID: got %d, want 42", claims.AdminID)
	}
	if claims.ID != "sess-1" {
		t.Errorf("jti: got %q, want %q", claims.ID, "sess-1")
	}
	if claims.Subject != "42" {
		t.Errorf("sub: got %q, want %q", claims.Subject, "42")
	}
	if got := claims.ExpiresAt.Time.Unix(); got != exp.Unix() {
		t.Errorf("exp: got %d, want %d", got, exp.Unix())
	}
}

func TestToken_Rejected(t *testing.T) {
	expired, _ := auth.IssueToken([]byte(testSecret), 1, "sess-1", time.Now().Add(-time.Minute))
	noSession, _ := auth.IssueToken([]byte(testSecret), 1, "", time.Now().Add(time.Hour))
	otherSecret, _ := auth.IssueToken([]byte("some-other-secret-with-32-chars-or-more"), 1, "sess-1", time.Now().Add(time.Hour))

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "sess-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		AdminID: 1,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing none token: %v", err)
	}

	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "sess-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		AdminID: 1,
	}).SignedString([]byte(testSecret))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"expired", expired},
		{"missing jti", noSession},
		{"wrong secret", otherSecret},
		{"alg none", unsigned},
		{"other hmac algorithm", hs512},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.ParseToken([]byte(testSecret), tc.token)
			if !errors.Is(err, auth.ErrInvalidToken) {
				t.Errorf("got %v, want ErrInvalidToken", err)
			}
		})
	}
}
