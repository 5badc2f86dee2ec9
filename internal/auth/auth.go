// Package auth provides service-to-service authentication: API-key checks on
// inbound requests and short-lived signed tokens for the agent gateway.
package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/leadwireai/leadwire/internal/secrets"
)

// APIKeyHeader carries the caller's key on inbound requests.
const APIKeyHeader = "X-Api-Key"

// Verifier checks a provided API key against the expected value held in the
// secret store. The expected key is loaded once and cached.
type Verifier struct {
	store      secrets.Store
	secretName string
	logger     *slog.Logger

	mu     sync.Mutex
	cached string
}

func NewVerifier(log *slog.Logger, store secrets.Store, secretName string) *Verifier {
	return &Verifier{
		store:      store,
		secretName: secretName,
		logger:     log.With(slog.String("service", "auth")),
	}
}

// Verify compares provided against the expected key in constant time.
func (v *Verifier) Verify(ctx context.Context, provided string) error {
	provided = strings.TrimSpace(provided)
	if provided == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "X-Api-Key header is required")
	}

	expected, err := v.expected(ctx)
	if err != nil {
		v.logger.Error("api key load failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "api key not configured")
	}

	if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
		v.logger.Warn("invalid api key")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid api key")
	}
	return nil
}

// Middleware enforces Verify on every request except those the skipper allows.
func (v *Verifier) Middleware(skip func(c echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skip != nil && skip(c) {
				return next(c)
			}
			if err := v.Verify(c.Request().Context(), c.Request().Header.Get(APIKeyHeader)); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func (v *Verifier) expected(ctx context.Context) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cached != "" {
		return v.cached, nil
	}
	value, err := v.store.Get(ctx, v.secretName)
	if err != nil {
		return "", err
	}
	v.cached = value
	return value, nil
}

// ServiceToken mints a short-lived HS256 token identifying this service to
// the agent gateway.
func ServiceToken(subject, secret string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", fmt.Errorf("token secret is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive")
	}
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
