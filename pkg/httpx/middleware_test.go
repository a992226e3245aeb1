package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"salesauth/pkg/jwtx"
)

type stubAuthenticator struct {
	claims jwtx.Claims
	err    error
}

func (s stubAuthenticator) Verify(string) (jwtx.Claims, error) {
	return s.claims, s.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthnMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("missing header is 401", func(t *testing.T) {
		h := Chain(okHandler(), AuthnMiddleware(stubAuthenticator{}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("verification failure is 401", func(t *testing.T) {
		h := Chain(okHandler(), AuthnMiddleware(stubAuthenticator{err: errors.New("bad token")}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer whatever")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token passes claims through", func(t *testing.T) {
		claims := jwtx.Claims{Username: "alice@example.com", Roles: []string{"Admin"}}
		var gotUsername string
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUsername = UsernameFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		h := Chain(inner, AuthnMiddleware(stubAuthenticator{claims: claims}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "alice@example.com", gotUsername)
	})
}

func TestRequireAnyRole(t *testing.T) {
	t.Parallel()

	serve := func(roles []string, required ...string) *httptest.ResponseRecorder {
		claims := jwtx.Claims{Username: "u@example.com", Roles: roles}
		h := Chain(okHandler(),
			AuthnMiddleware(stubAuthenticator{claims: claims}),
			RequireAnyRole(required...),
		)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("matching role allowed", func(t *testing.T) {
		rec := serve([]string{"Sales Manager"}, "Sales Manager")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("any of several roles allowed", func(t *testing.T) {
		rec := serve([]string{"Sales Advisor"}, "Sales Manager", "Sales Advisor")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing role forbidden", func(t *testing.T) {
		rec := serve([]string{"Admin"}, "Sales Manager")
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("role match is case sensitive", func(t *testing.T) {
		rec := serve([]string{"sales manager"}, "Sales Manager")
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRateLimitByIP(t *testing.T) {
	t.Parallel()

	cfg := RateLimitConfig{
		RequestsPerWindow: 2,
		Window:            time.Minute,
		Burst:             2,
	}
	h := Chain(okHandler(), RateLimitByIP(cfg))

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":12345"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, do("10.0.0.1").Code)
	require.Equal(t, http.StatusOK, do("10.0.0.1").Code)

	rec := do("10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Other clients are unaffected.
	require.Equal(t, http.StatusOK, do("10.0.0.2").Code)
}
