package auth

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"gamearena/backend/internal/config"
	"gamearena/backend/internal/database"
	"gamearena/backend/internal/models"
	"gamearena/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const secret = "middleware-secret"

func setup(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	prev := config.AppConfig
	config.AppConfig = &config.Config{JWTSecret: secret}
	t.Cleanup(func() { config.AppConfig = prev })
}

func serve(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func echoUser(c *gin.Context) {
	c.String(http.StatusOK, UserID(c))
}

func TestAuthMiddleware(t *testing.T) {
	setup(t)
	r := gin.New()
	r.GET("/", AuthMiddleware(), echoUser)

	token, err := jwt.GenerateTokenWithSecret("user-1", secret)
	require.NoError(t, err)
	forged, err := jwt.GenerateTokenWithSecret("user-1", "other-secret")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + token, http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + forged, http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(r, tc.header)
			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, "user-1", w.Body.String())
			}
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	setup(t)
	r := gin.New()
	r.GET("/", OptionalAuthMiddleware(), echoUser)

	w := serve(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = serve(r, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	token, err := jwt.GenerateTokenWithSecret("user-2", secret)
	require.NoError(t, err)
	w = serve(r, "Bearer "+token)
	assert.Equal(t, "user-2", w.Body.String())
}

func TestAdminMiddleware(t *testing.T) {
	setup(t)
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "auth.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}))
	prevDB := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prevDB })

	admin := models.Profile{Username: "admin", Email: "admin@example.com", Role: models.RoleAdmin, TotalEarnings: decimal.Zero, Rank: "Bronze"}
	player := models.Profile{Username: "player", Email: "player@example.com", Role: models.RoleUser, TotalEarnings: decimal.Zero, Rank: "Bronze"}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&player).Error)

	r := gin.New()
	r.GET("/", AuthMiddleware(), AdminMiddleware(), echoUser)

	tokenFor := func(id string) string {
		tok, err := jwt.GenerateTokenWithSecret(id, secret)
		require.NoError(t, err)
		return "Bearer " + tok
	}
	assert.Equal(t, http.StatusOK, serve(r, tokenFor(admin.ID)).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, tokenFor(player.ID)).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, tokenFor("ghost")).Code)
}
