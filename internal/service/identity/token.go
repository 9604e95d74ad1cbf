package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/routine-api/internal/config"
	"github.com/phrazzld/routine-api/internal/platform/logger"
)

// Token validation errors.
var (
	// ErrInvalidToken indicates the token failed signature or structural
	// validation. API layer should map this to HTTP 401 Unauthorized.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates the token's expiry has passed.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrExpiredToken = errors.New("token expired")
)

// TokenClaims is the caller identity carried by a verified token.
type TokenClaims struct {
	// Principal is the UPN-style identifier (user@tenant) or bare login.
	Principal string
	// Name is the display name, when the token carries one.
	Name string
}

// TokenVerifier validates bearer tokens and extracts the caller identity.
type TokenVerifier interface {
	Verify(ctx context.Context, tokenString string) (*TokenClaims, error)
}

// hmacTokenVerifier is an implementation of TokenVerifier using HMAC-SHA signing.
type hmacTokenVerifier struct {
	signingKey []byte
	timeFunc   func() time.Time // Injectable for testing
	clockSkew  time.Duration    // Allowed time difference for validation to handle clock drift
}

// jwtIdentityClaims defines the structure of JWT claims we accept. The
// principal may arrive as upn or preferred_username depending on the issuer.
type jwtIdentityClaims struct {
	UPN               string `json:"upn,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	Email             string `json:"email,omitempty"`
	Name              string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Ensure hmacTokenVerifier implements TokenVerifier interface
var _ TokenVerifier = (*hmacTokenVerifier)(nil)

// NewTokenVerifier creates a new token verifier using HMAC-SHA signing.
func NewTokenVerifier(cfg config.AuthConfig) (TokenVerifier, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}
	return &hmacTokenVerifier{
		signingKey: []byte(cfg.JWTSecret),
		timeFunc:   time.Now,
		clockSkew:  2 * time.Minute,
	}, nil
}

// Verify validates a token and returns the caller identity claims.
func (v *hmacTokenVerifier) Verify(ctx context.Context, tokenString string) (*TokenClaims, error) {
	log := logger.FromContext(ctx)
	now := v.timeFunc()

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(v.clockSkew),
		jwt.WithTimeFunc(func() time.Time {
			return now
		}),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwtIdentityClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return v.signingKey, nil
		},
		parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug("token validation failed: token expired", "error", err)
			return nil, ErrExpiredToken
		}
		log.Debug("token validation failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*jwtIdentityClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	principal := claims.UPN
	if principal == "" {
		principal = claims.PreferredUsername
	}
	if principal == "" {
		principal = claims.Email
	}
	if principal == "" {
		principal = claims.Subject
	}
	if principal == "" {
		log.Debug("token carries no principal claim")
		return nil, fmt.Errorf("%w: missing principal claim", ErrInvalidToken)
	}

	return &TokenClaims{
		Principal: principal,
		Name:      claims.Name,
	}, nil
}
