package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nyumba-homes/storefront-api/internal/config"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrMissingSecret = errors.New("session token secret is not configured")
)

// DefaultTokenTTL is used when the configured lifetime is not positive
const DefaultTokenTTL = 24 * time.Hour

// SessionTokens issues and validates HS256 visitor session tokens.
// The session id travels in the subject claim.
type SessionTokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionTokens creates a token issuer from configuration
func NewSessionTokens(cfg *config.AuthConfig) (*SessionTokens, error) {
	if cfg.TokenSecret == "" {
		return nil, ErrMissingSecret
	}
	ttl := cfg.TokenTTLDuration()
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &SessionTokens{
		secret: []byte(cfg.TokenSecret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// NewSession starts a session with a fresh random id and returns its token
func (s *SessionTokens) NewSession() (*SessionContext, error) {
	return s.Issue(uuid.New().String())
}

// Issue signs a token for an existing session id
func (s *SessionTokens) Issue(sessionID string) (*SessionContext, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: empty session id", ErrInvalidToken)
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.New().String(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &SessionContext{
		SessionID: sessionID,
		ExpiresAt: expiresAt,
		Token:     signed,
	}, nil
}

// ValidateToken checks signature, issuer and expiry and returns the session
func (s *SessionTokens) ValidateToken(tokenString string) (*SessionContext, error) {
	claims := &jwt.RegisteredClaims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	parsedToken, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !parsedToken.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	session := &SessionContext{
		SessionID: claims.Subject,
		Token:     tokenString,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}
