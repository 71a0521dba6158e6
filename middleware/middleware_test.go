package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chamber-cms/cache"
	"chamber-cms/models"
	"chamber-cms/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type staticUsers map[uint]*models.User

func (s staticUsers) GetUserByID(id uint) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, models.NotFound("User not found")
}

func TestAuthenticate(t *testing.T) {
	tokens := services.NewTokenManager("mw-secret", time.Hour)
	r := gin.New()
	r.GET("/me", Authenticate(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": CurrentClaims(c).Email})
	})

	w := serve(r, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Access token required"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer not-a-jwt"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"message":"Invalid or expired token"}`, w.Body.String())

	token, err := tokens.Issue(&models.User{ID: 1, Email: "a@x.com", Role: models.RoleUser})
	require.NoError(t, err)
	w = serve(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"a@x.com"}`, w.Body.String())
}

func TestRequireAdminAndFreshAdmin(t *testing.T) {
	tokens := services.NewTokenManager("mw-secret", time.Hour)
	users := staticUsers{
		1: {ID: 1, Role: models.RoleAdmin},
		2: {ID: 2, Role: models.RoleUser},
	}

	r := gin.New()
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/admin", Authenticate(tokens), RequireAdmin(), ok)
	r.GET("/fresh", Authenticate(tokens), RequireAdmin(), RequireFreshAdmin(users), ok)

	issue := func(id uint, role models.UserRole) map[string]string {
		token, err := tokens.Issue(&models.User{ID: id, Role: role})
		require.NoError(t, err)
		return map[string]string{"Authorization": "Bearer " + token}
	}

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/admin", issue(1, models.RoleAdmin)).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/admin", issue(2, models.RoleUser)).Code)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/fresh", issue(1, models.RoleAdmin)).Code)
	// Token still claims admin, storage says otherwise.
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/fresh", issue(2, models.RoleAdmin)).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/fresh", issue(3, models.RoleAdmin)).Code)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(2, time.Minute, "slow down"), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", nil).Code)
	}
	w := serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"message":"slow down"`)

	// Another client has its own bucket.
	w = serve(r, http.MethodGet, "/", map[string]string{"X-Forwarded-For": "10.0.0.9"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitDisabled(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(0, time.Minute, "never"), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", nil).Code)
	}
}

func TestLimiterCacheReusesLimiters(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	assert.Same(t, lc.get("a"), lc.get("a"))
	assert.NotSame(t, lc.get("a"), lc.get("b"))
}

func TestResponseCache(t *testing.T) {
	store := cache.NewMemoryCache(time.Minute, time.Minute)
	defer store.Close()

	calls := 0
	status := http.StatusOK
	r := gin.New()
	r.GET("/items", ResponseCache(store, "items:", 5*time.Minute), func(c *gin.Context) {
		calls++
		c.JSON(status, []int{calls})
	})

	w := serve(r, http.MethodGet, "/items?page=1", nil)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, "public, max-age=300", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `[1]`, w.Body.String())

	w = serve(r, http.MethodGet, "/items?page=1", nil)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.JSONEq(t, `[1]`, w.Body.String())
	assert.Equal(t, 1, calls)

	// The query string is part of the key.
	w = serve(r, http.MethodGet, "/items?page=2", nil)
	assert.JSONEq(t, `[2]`, w.Body.String())

	require.NoError(t, store.DeletePrefix(context.Background(), "items:"))
	status = http.StatusInternalServerError
	serve(r, http.MethodGet, "/items?page=1", nil)
	w = serve(r, http.MethodGet, "/items?page=1", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Cache-Control"))
	assert.Equal(t, 4, calls)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("http://localhost:3000/"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/", map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, http.MethodGet, "/", map[string]string{"Origin": "http://evil.test"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, http.MethodOptions, "/", map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}
