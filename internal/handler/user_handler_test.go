package handler

import (
	"net/http"
	"testing"

	"gamearena/backend/internal/config"
	"gamearena/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/auth/register", RegisterInput{
		Username: "ProGamer123",
		Email:    "Pro@Example.com",
		Password: "password123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode[AuthResponse](t, w)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "pro@example.com", reg.Profile.Email)
	assert.Equal(t, models.RoleUser, reg.Profile.Role)
	assert.Equal(t, "0.00", reg.Profile.TotalEarnings)

	w = env.do(http.MethodPost, "/api/v1/auth/register", RegisterInput{
		Username: "ProGamer123",
		Email:    "other@example.com",
		Password: "password123",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	for _, login := range []string{"ProGamer123", "PRO@example.com"} {
		w = env.do(http.MethodPost, "/api/v1/auth/login", LoginInput{Login: login, Password: "password123"}, "")
		require.Equal(t, http.StatusOK, w.Code, login)
		assert.Equal(t, reg.Profile.ID, decode[AuthResponse](t, w).Profile.ID)
	}

	w = env.do(http.MethodPost, "/api/v1/auth/login", LoginInput{Login: "ProGamer123", Password: "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/auth/login", LoginInput{Login: "new@example.com"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	config.AppConfig.DemoMode = true
	w = env.do(http.MethodPost, "/api/v1/auth/login", LoginInput{Login: "new@example.com"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decode[AuthResponse](t, w)
	assert.Contains(t, first.Profile.Username, "DemoPlayer-")
	assert.Equal(t, "1250.00", first.Profile.TotalEarnings)

	// The demo profile is reused on the next sign-in.
	w = env.do(http.MethodPost, "/api/v1/auth/login", LoginInput{Login: "new@example.com"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first.Profile.ID, decode[AuthResponse](t, w).Profile.ID)
}

func TestGetAndUpdateMe(t *testing.T) {
	env := newTestEnv(t)
	p, token := env.user("SkillMaster", models.RoleUser)
	env.user("TourneyKing", models.RoleUser)

	w := env.do(http.MethodGet, "/api/v1/users/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodGet, "/api/v1/users/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, p.ID, decode[ProfileResponse](t, w).ID)

	name := "Skill Master"
	w = env.do(http.MethodPut, "/api/v1/users/me", map[string]any{"full_name": name}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, name, decode[ProfileResponse](t, w).FullName)

	var stored models.Profile
	require.NoError(t, env.db.First(&stored, "id = ?", p.ID).Error)
	assert.Equal(t, name, stored.FullName)

	w = env.do(http.MethodPut, "/api/v1/users/me", map[string]any{"username": "TourneyKing"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)
}
