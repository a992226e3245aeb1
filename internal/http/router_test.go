package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"salesauth/internal/domain"
	"salesauth/internal/service"
	"salesauth/internal/store/drivers/sqlite"
	"salesauth/pkg/jwtx"
	"salesauth/pkg/slogx"
)

// newTestRouter wires a full stack (sqlite store, services, router) against
// a throwaway database, the same shape app.New produces.
func newTestRouter(t *testing.T) *Router {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	key := []byte("router-test-signing-key")
	signer, err := jwtx.NewSignerHS256(key)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256(key)
	require.NoError(t, err)

	rolesService := &service.RolesService{Store: st}
	require.NoError(t, rolesService.EnsureRoles(context.Background()))

	logger := slogx.New(slogx.Config{Service: "salesauth-test", Level: "error", Format: "text"})

	router := NewRouter(verifier, "test", st, logger)
	router.AuthService = &service.AuthService{
		Signer:     signer,
		Verifier:   verifier,
		Store:      st,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}
	router.ProductService = &service.ProductService{Store: st}
	router.RolesService = rolesService
	router.ApplyRoutes()

	return router
}

func doJSON(t *testing.T, router *Router, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeToken(t *testing.T, rec *httptest.ResponseRecorder) (isSuccess bool, access, refresh string) {
	t.Helper()

	var resp struct {
		IsSuccess    bool   `json:"isSuccess"`
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.IsSuccess, resp.AccessToken, resp.RefreshToken
}

func TestAuthFlow(t *testing.T) {
	router := newTestRouter(t)

	t.Run("register", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/Auth/Register", "", map[string]string{
			"email": "manager@example.com", "password": "password1",
			"name": "Mandy", "surname": "Manager", "roleName": domain.RoleSalesManager,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "User Created Successfully", rec.Body.String())
	})

	t.Run("duplicate register", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/Auth/Register", "", map[string]string{
			"email": "manager@example.com", "password": "other",
			"name": "Mandy", "surname": "Manager", "roleName": domain.RoleSalesManager,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "User could not be registered.", rec.Body.String())
	})

	t.Run("register with unknown role warns", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/Auth/Register", "", map[string]string{
			"email": "norole@example.com", "password": "password1",
			"name": "No", "surname": "Role", "roleName": "Janitor",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "Role could not be saved.", rec.Body.String())
	})

	t.Run("login with wrong password", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/Auth/login", "", map[string]string{
			"email": "manager@example.com", "password": "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		ok, _, _ := decodeToken(t, rec)
		require.False(t, ok)
	})

	var access, refresh string
	t.Run("login", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/Auth/login", "", map[string]string{
			"email": "manager@example.com", "password": "password1",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var ok bool
		ok, access, refresh = decodeToken(t, rec)
		require.True(t, ok)
		require.NotEmpty(t, access)
		require.NotEmpty(t, refresh)
		require.Contains(t, rec.Body.String(), "validTo")
	})

	t.Run("refresh rotates", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/Auth/RefreshToken", "", map[string]string{
			"accessToken": access, "refreshToken": refresh,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		ok, newAccess, newRefresh := decodeToken(t, rec)
		require.True(t, ok)
		require.NotEmpty(t, newAccess)
		require.NotEqual(t, refresh, newRefresh)

		t.Run("old refresh token rejected", func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/Auth/RefreshToken", "", map[string]string{
				"accessToken": access, "refreshToken": refresh,
			})
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Contains(t, rec.Body.String(), "Invalid access token or refresh token")
		})

		access, refresh = newAccess, newRefresh
	})

	t.Run("refresh with missing fields is a bare 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/Auth/RefreshToken", "", map[string]string{
			"accessToken": access,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "null\n", rec.Body.String())
	})
}

func TestProductEndpoints(t *testing.T) {
	router := newTestRouter(t)

	register := func(email, role string) string {
		rec := doJSON(t, router, http.MethodPost, "/api/Auth/Register", "", map[string]string{
			"email": email, "password": "password1",
			"name": "Test", "surname": "User", "roleName": role,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, router, http.MethodPost, "/api/Auth/login", "", map[string]string{
			"email": email, "password": "password1",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		_, access, _ := decodeToken(t, rec)
		return access
	}

	managerToken := register("manager@example.com", domain.RoleSalesManager)
	advisorToken := register("advisor@example.com", domain.RoleSalesAdvisor)

	t.Run("unauthenticated requests rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/Product/GetAllProducts", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = doJSON(t, router, http.MethodPost, "/api/Product/AddNewProduct", "", map[string]string{"name": "X"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("manager can add products", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/Product/AddNewProduct", managerToken, map[string]string{"name": "Widget"})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, router, http.MethodPost, "/api/Product/AddNewProduct", managerToken, map[string]string{"name": "Widget"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "already exists")
	})

	t.Run("advisor cannot add products", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/Product/AddNewProduct", advisorToken, map[string]string{"name": "Gadget"})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("both roles can list products", func(t *testing.T) {
		for _, token := range []string{managerToken, advisorToken} {
			rec := doJSON(t, router, http.MethodGet, "/api/Product/GetAllProducts", token, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			var products []struct {
				Name string `json:"name"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
			require.Len(t, products, 1)
			require.Equal(t, "Widget", products[0].Name)
		}
	})

	t.Run("expired token rejected by authn", func(t *testing.T) {
		signer, err := jwtx.NewSignerHS256([]byte("router-test-signing-key"))
		require.NoError(t, err)
		expired := jwtx.NewAccessClaims("manager@example.com", []string{domain.RoleSalesManager}, time.Minute, time.Now().Add(-time.Hour))
		token, err := signer.Sign(expired)
		require.NoError(t, err)

		rec := doJSON(t, router, http.MethodGet, "/api/Product/GetAllProducts", token, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = doJSON(t, router, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
