package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pediatric-dosage/internal/ports/auth"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotConfigured = errors.New("jwt signer not configured")
	ErrTokenEmpty    = errors.New("token is empty")
	ErrInvalidToken  = errors.New("invalid token")
)

// Config del firmador HS256. Secret viene de JWT_SECRET.
type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Signer implementa auth.AuthVerifier y auth.TokenIssuer con HS256.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwtlib.RegisteredClaims
}

func NewSigner(cfg Config) *Signer {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	issuer := strings.TrimSpace(cfg.Issuer)
	if issuer == "" {
		issuer = "pediatric-dosage"
	}
	return &Signer{
		secret: []byte(cfg.Secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *Signer) Issue(_ context.Context, c auth.Claims) (string, time.Time, error) {
	if s == nil || len(s.secret) == 0 {
		return "", time.Time{}, ErrNotConfigured
	}
	if strings.TrimSpace(c.UserID) == "" {
		return "", time.Time{}, errors.New("claims missing user id")
	}

	now := s.now()
	exp := now.Add(s.ttl)
	tok := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims{
		Username: c.Username,
		Role:     string(c.Role),
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   c.UserID,
			Issuer:    s.issuer,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(exp),
		},
	})

	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

func (s *Signer) Verify(_ context.Context, token string) (auth.Claims, error) {
	if s == nil || len(s.secret) == 0 {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var c claims
	_, err := jwtlib.ParseWithClaims(token, &c, func(*jwtlib.Token) (any, error) {
		return s.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(s.issuer),
		jwtlib.WithTimeFunc(s.now),
	)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if strings.TrimSpace(c.Subject) == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return auth.Claims{
		UserID:   c.Subject,
		Username: c.Username,
		Role:     auth.Role(c.Role),
	}, nil
}
