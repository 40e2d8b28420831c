package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/uiforge/uiforge/internal/api"
	iauth "github.com/uiforge/uiforge/internal/auth"
	"github.com/uiforge/uiforge/internal/database"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         "router-test-secret-key-32-bytes!!!!!",
		Issuer:         "router-test",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	router, err := api.NewRouter(db, jwtSvc, nil, nil)
	require.NoError(t, err)
	return router
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthAndMetricsArePublic(t *testing.T) {
	router := newTestRouter(t)

	health := serve(router, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, health.Code)
	require.Contains(t, health.Body.String(), `"status":"ok"`)

	metrics := serve(router, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, metrics.Code)
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPost, "/api/components"},
		{http.MethodDelete, "/api/components/some-id"},
		{http.MethodPost, "/api/generate"},
		{http.MethodPost, "/api/refine"},
	} {
		resp := serve(router, route.method, route.path)
		require.Equal(t, http.StatusUnauthorized, resp.Code, "%s %s", route.method, route.path)
	}
}

func TestRouter_ComponentBrowsingIsPublic(t *testing.T) {
	router := newTestRouter(t)

	list := serve(router, http.MethodGet, "/api/components")
	require.Equal(t, http.StatusOK, list.Code)

	missing := serve(router, http.MethodGet, "/api/components/nope")
	require.Equal(t, http.StatusNotFound, missing.Code)
}

func TestRouter_RequiresDependencies(t *testing.T) {
	gin.SetMode(gin.TestMode)

	_, err := api.NewRouter(nil, nil, nil, nil)
	require.Error(t, err)
}
