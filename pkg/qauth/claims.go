// Package qauth mints and verifies the bearer tokens that guard the job API.
package qauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenAudience is the only audience the API accepts.
const TokenAudience = "qjob"

const TokenIssuer = "qjob"

// MinSecretLength is the shortest HS256 secret the server will start with.
const MinSecretLength = 32

// Claims is the verified content of an API token.
type Claims struct {
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IssueToken signs an HS256 token for subject that expires after ttl. A zero ttl never expires.
func IssueToken(secret []byte, subject string, ttl time.Duration, now time.Time) (string, error) {
	if len(secret) < MinSecretLength {
		return "", fmt.Errorf("secret must be at least %d bytes", MinSecretLength)
	}
	if subject == "" {
		return "", errors.New("subject is required")
	}

	claims := jwt.RegisteredClaims{
		Subject:  subject,
		Issuer:   TokenIssuer,
		Audience: jwt.ClaimStrings{TokenAudience},
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ValidateToken verifies signature, expiry and audience. Only HMAC signing is accepted.
func ValidateToken(secret []byte, tokenString string) (*Claims, error) {
	var rc jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &rc, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithAudience(TokenAudience), jwt.WithIssuedAt())
	if err != nil {
		return nil, err
	}

	c := &Claims{Subject: rc.Subject, Issuer: rc.Issuer}
	if rc.IssuedAt != nil {
		c.IssuedAt = rc.IssuedAt.Time
	}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, nil
}

// ParseTokenClaims extracts raw claims from a JWT without verifying its signature. It is for
// display only.
func ParseTokenClaims(tokenStr string) (jwt.MapClaims, error) {
	var claims jwt.MapClaims
	parser := new(jwt.Parser)
	_, _, err := parser.ParseUnverified(tokenStr, &claims)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
