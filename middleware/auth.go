package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"mini-social/models"
	"mini-social/utils"
)

const (
	userKey   = "user"
	userIDKey = "user_id"
)

// TokenVerifier returns the subject of a valid token.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserFinder looks users up by the email carried in the token subject.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Resolver turns a bearer token into the authenticated user. It holds no mutable state.
type Resolver struct {
	tokens TokenVerifier
	users  UserFinder
}

func NewResolver(tokens TokenVerifier, users UserFinder) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// Resolve fails with an error matching utils.ErrUnauthenticated, and additionally
// utils.ErrInvalidToken or utils.ErrUnknownSubject for the cause.
func (r *Resolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, utils.ErrUnauthenticated
	}
	email, err := r.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrUnauthenticated, err)
	}
	user, err := r.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", utils.ErrUnauthenticated, utils.ErrUnknownSubject)
		}
		return nil, err
	}
	return user, nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return "", false
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}

	return strings.Trim(parts[1], "\"'"), true
}

// JWTAuth rejects requests without a resolvable bearer token and stores the user in the context.
func JWTAuth(resolver *Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			utils.SendDomainError(c, utils.ErrUnauthenticated)
			c.Abort()
			return
		}

		user, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			utils.SendDomainError(c, err)
			c.Abort()
			return
		}

		SetCurrentUser(c, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by JWTAuth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// SetCurrentUser stores user the way JWTAuth does.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(userKey, user)
	c.Set(userIDKey, user.ID)
}
