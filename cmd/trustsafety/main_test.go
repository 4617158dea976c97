package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richxcame/salon-safety/pkg/common"
	"github.com/richxcame/salon-safety/pkg/config"
	"github.com/richxcame/salon-safety/pkg/middleware"
)

const testJWTSecret = "test-secret-key-for-testing-only"

type pingHandler struct{}

func (pingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) { common.SuccessResponse(c, "pong") })
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			ServiceName:    "trust-safety",
			Version:        "1.0.0",
			Environment:    "test",
			RequestTimeout: 5 * time.Second,
			CORSOrigins:    "http://localhost:3000",
		},
		JWT: config.JWTConfig{Secret: testJWTSecret},
	}
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	claims := middleware.Claims{
		UserID: "9b2f4c1e-0000-4000-8000-000000000001",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func TestNewRouter_AdminRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newRouter(testConfig(), nil, pingHandler{})

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{name: "missing token", wantStatus: http.StatusUnauthorized},
		{name: "non-admin role", token: signToken(t, "customer"), wantStatus: http.StatusForbidden},
		{name: "admin role", token: signToken(t, middleware.RoleAdmin), wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/trust-safety/ping", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestNewRouter_HealthEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	checks := map[string]common.HealthCheckFunc{
		"database": func(ctx context.Context) error { return errors.New("connection refused") },
	}
	router := newRouter(testConfig(), checks)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
