// internal/app/system/auth/token.go
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HMAC secret NewSessionManager accepts.
const MinSecretLength = 32

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the payload of an admin capability token. The registered ID
// (jti) names the server-side session that must still be live for the
// token to be honored.
type Claims struct {
	jwt.RegisteredClaims
	AdminID int64 `json:"aid"`
}

// IssueToken signs an HS256 token for adminID bound to sessionID.
func IssueToken(secret []byte, adminID int64, sessionID string, expiresAt time.Time) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   strconv.FormatInt(adminID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		AdminID: adminID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken verifies signature and expiry and returns the claims.
// Tokens signed with anything other than HS256 are rejected.
func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ID == "" || claims.AdminID <= 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
