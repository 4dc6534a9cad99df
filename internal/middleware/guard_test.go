package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testToken(t *testing.T, exp time.Time) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body, err := json.Marshal(map[string]interface{}{
		"exp": exp.Unix(),
		"cpf": "52998224725",
	})
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(body) + ".sig"
}

func TestDecide_PublicPaths(t *testing.T) {
	now := time.Now()
	valid := testToken(t, now.Add(time.Hour))

	publicNotGuestOnly := []string{"/", "/editais", "/editais/abc-123"}
	for _, path := range publicNotGuestOnly {
		assert.Equal(t, GuardAllow, Decide(path, "", now), "no token: %s", path)
		assert.Equal(t, GuardAllow, Decide(path, valid, now), "with token: %s", path)
	}
}

func TestDecide_GuestOnlyPaths(t *testing.T) {
	now := time.Now()
	valid := testToken(t, now.Add(time.Hour))
	expired := testToken(t, now.Add(-time.Hour))

	for _, path := range []string{"/login", "/cadastro", "/cadastro/complemento", "/recuperar-senha"} {
		assert.Equal(t, GuardAllow, Decide(path, "", now), "no token: %s", path)
		assert.Equal(t, GuardRedirectHome, Decide(path, valid, now), "valid token: %s", path)
		// Expired token counts as unauthenticated
		assert.Equal(t, GuardAllow, Decide(path, expired, now), "expired token: %s", path)
	}
}

func TestDecide_ProtectedPaths(t *testing.T) {
	now := time.Now()
	valid := testToken(t, now.Add(time.Hour))
	expired := testToken(t, now.Add(-time.Hour))

	for _, path := range []string{"/configuracoes", "/perfil", "/meus-editais", "/editais/novo", "/pagina-desconhecida"} {
		assert.Equal(t, GuardRedirectLogin, Decide(path, "", now), "no token: %s", path)
		assert.Equal(t, GuardAllow, Decide(path, valid, now), "valid token: %s", path)
		assert.Equal(t, GuardRedirectLogin, Decide(path, expired, now), "expired token: %s", path)
	}
}

func TestDecide_UndecodableToken(t *testing.T) {
	now := time.Now()

	for _, garbage := range []string{"nonsense", "a.b", "a.!!!.c"} {
		assert.NotPanics(t, func() {
			assert.Equal(t, GuardRedirectLogin, Decide("/perfil", garbage, now))
			assert.Equal(t, GuardAllow, Decide("/editais", garbage, now))
		})
	}
}

// /editais/novo must hit the protected branch even though it matches the
// notice-detail pattern, and notice-detail pages must stay public.
func TestDecide_PatternOrdering(t *testing.T) {
	now := time.Now()

	assert.Equal(t, GuardRedirectLogin, Decide("/editais/novo", "", now))
	assert.Equal(t, GuardAllow, Decide("/editais/2026-prefeitura-01", "", now))
	assert.Equal(t, GuardRedirectLogin, Decide("/editais/abc/inscricao", "", now),
		"deeper paths are not covered by the detail pattern")
}

func TestIsPublicPath(t *testing.T) {
	assert.True(t, IsPublicPath("/"))
	assert.True(t, IsPublicPath("/editais/xyz"))
	assert.False(t, IsPublicPath("/editais/novo"))
	assert.False(t, IsPublicPath("/perfil"))
}

func TestRouteGuard_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RouteGuard("token"))
	router.GET("/perfil", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/editais", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("protected without token redirects to login", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/perfil", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("guest-only with valid token redirects home", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: testToken(t, time.Now().Add(time.Hour))})
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})

	t.Run("public without token allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/editais", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("garbage cookie does not crash the guard", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/perfil", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})

		assert.NotPanics(t, func() { router.ServeHTTP(w, req) })
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})
}
