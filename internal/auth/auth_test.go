package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadwireai/leadwire/internal/secrets"
)

func TestVerify(t *testing.T) {
	t.Parallel()
	v := NewVerifier(slog.Default(), secrets.StaticStore{"RAG_API_KEY": "expected-key"}, "RAG_API_KEY")
	ctx := context.Background()

	assert.NoError(t, v.Verify(ctx, "expected-key"))
	assert.NoError(t, v.Verify(ctx, "  expected-key  "), "surrounding whitespace is trimmed")

	err := v.Verify(ctx, "wrong")
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)

	err = v.Verify(ctx, "")
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestVerifyMissingSecret(t *testing.T) {
	t.Parallel()
	v := NewVerifier(slog.Default(), secrets.StaticStore{}, "RAG_API_KEY")
	err := v.Verify(context.Background(), "anything")
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Code)
}

func TestMiddlewareSkipper(t *testing.T) {
	t.Parallel()
	v := NewVerifier(slog.Default(), secrets.StaticStore{"RAG_API_KEY": "k"}, "RAG_API_KEY")
	e := echo.New()
	handler := v.Middleware(func(c echo.Context) bool {
		return c.Request().URL.Path == "/ping"
	})(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/rag/query", nil)
	rec = httptest.NewRecorder()
	err := handler(e.NewContext(req, rec))
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/rag/query", nil)
	req.Header.Set(APIKeyHeader, "k")
	rec = httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
}

func TestServiceToken(t *testing.T) {
	t.Parallel()
	signed, err := ServiceToken("leadwire", "shared-secret", time.Minute)
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(token *jwt.Token) (any, error) {
		return []byte("shared-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "leadwire", claims["sub"])

	_, err = ServiceToken("leadwire", "", time.Minute)
	assert.Error(t, err)
	_, err = ServiceToken("leadwire", "s", 0)
	assert.Error(t, err)
}
