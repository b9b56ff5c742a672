package security

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const adminSubject = "admin"

// JWTIssuer issues HS256 admin tokens. Validity is checked against the
// issued-at claim, so tokens need no server-side bookkeeping.
type JWTIssuer struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
}

// NewJWTIssuer signs with secret; an empty secret gets a random per-process key,
// which invalidates all tokens on restart.
func NewJWTIssuer(secret string, ttl time.Duration) (*JWTIssuer, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate token secret: %w", err)
		}
	}
	return &JWTIssuer{secretKey: key, issuer: "timed-quiz-admin", ttl: ttl}, nil
}

// Issue returns a signed token and its expiry.
func (s *JWTIssuer) Issue(now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.ttl)
	claims := jwt.MapClaims{
		"sub": adminSubject,
		"iss": s.issuer,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate checks signature, issuer and that now - iat is below the ttl.
func (s *JWTIssuer) Validate(tokenString string, now time.Time) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return err
	}

	issuedAt, err := token.Claims.GetIssuedAt()
	if err != nil || issuedAt == nil {
		return errors.New("token without iat")
	}
	if now.Sub(issuedAt.Time) >= s.ttl {
		return errors.New("token expired")
	}
	subject, err := token.Claims.GetSubject()
	if err != nil || subject != adminSubject {
		return errors.New("token without admin subject")
	}
	return nil
}
