package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rambopet/internal/middleware"
	"rambopet/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret, role string, ttl time.Duration) string {
	t.Helper()
	claims := middleware.JWTClaims{
		UserID:   uuid.NewString(),
		Username: "tester",
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func protectedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", middleware.JWTAuth(testSecret))
	if len(roles) > 0 {
		group.Use(middleware.RequireRole(roles...))
	}
	group.GET("/ping", func(c *gin.Context) {
		claims := middleware.GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"role": claims.Role})
	})
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthValidToken(t *testing.T) {
	r := protectedRouter()
	w := doGet(r, signToken(t, testSecret, model.RoleVet, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), model.RoleVet)
}

func TestJWTAuthMissingHeader(t *testing.T) {
	r := protectedRouter()
	w := doGet(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	r := protectedRouter()
	w := doGet(r, signToken(t, "other-secret", model.RoleVet, time.Hour))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	r := protectedRouter()
	w := doGet(r, signToken(t, testSecret, model.RoleVet, -time.Minute))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	r := protectedRouter(model.RoleAdmin)

	w := doGet(r, signToken(t, testSecret, model.RoleAdmin, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doGet(r, signToken(t, testSecret, model.RoleGuardian, time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLoginRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", middleware.LoginRateLimiter(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	var last int
	for i := 0; i < 21; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.1.2.3:5555"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		last = w.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last, "the 21st attempt inside the window is rejected")

	// A different IP has its own window.
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.9.9.9:5555"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
