package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 7 * 24 * time.Hour

var (
	ErrTokenMissing = errors.New("authorization token required")
	ErrTokenInvalid = errors.New("invalid or expired token")
)

// TokenClaims are the identity fields carried by every issued token.
type TokenClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies the self-contained identity tokens.
// There is no server-side session store; refresh issues a new token and
// old ones stay valid until natural expiry.
type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

func (ti *TokenIssuer) Issue(userID uint, username, email string, isAdmin bool) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:   userID,
		Username: username,
		Email:    email,
		IsAdmin:  isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
}

// Verify fails closed: any parse, signature, or expiry problem yields
// ErrTokenInvalid.
func (ti *TokenIssuer) Verify(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return ti.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Refresh issues a new token with the same claims and a fresh expiry.
func (ti *TokenIssuer) Refresh(tokenString string) (string, error) {
	claims, err := ti.Verify(tokenString)
	if err != nil {
		return "", err
	}
	return ti.Issue(claims.UserID, claims.Username, claims.Email, claims.IsAdmin)
}
