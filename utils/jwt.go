package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mini-social/config"
)

// TokenService issues and verifies bearer tokens whose subject is the user's email.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(cfg config.AuthConfig) (*TokenService, error) {
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm: %s", cfg.Algorithm)
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("empty signing key")
	}
	return &TokenService{
		secret: []byte(cfg.SecretKey),
		method: method,
		ttl:    cfg.AccessTokenTTL,
		now:    time.Now,
	}, nil
}

// Issue signs a token for email that expires after the configured window.
func (s *TokenService) Issue(email string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(s.method, claims)
	return token.SignedString(s.secret)
}

// Verify returns the subject of a well-formed, correctly signed, unexpired token.
// Every failure is reported as ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signature method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
