package handler

import (
	"net/http"
	"testing"

	"gamearena/backend/internal/leaderboard"
	"gamearena/backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLeaderboard(t *testing.T) {
	env := newTestEnv(t)
	profiles := []models.Profile{
		{Username: "ProGamer123", Email: "a@example.com", TotalEarnings: decimal.NewFromInt(5420), GamesWon: 45, GamesPlayed: 67, Level: 42, Rank: "Diamond"},
		{Username: "ESportsMaster", Email: "b@example.com", TotalEarnings: decimal.NewFromInt(4890), GamesWon: 38, GamesPlayed: 52, Level: 39, Rank: "Diamond"},
		{Username: "Rookie", Email: "c@example.com", TotalEarnings: decimal.NewFromInt(10), GamesWon: 50, GamesPlayed: 200, Level: 3, Rank: "Bronze"},
	}
	require.NoError(t, env.db.Create(&profiles).Error)

	w := env.do(http.MethodGet, "/api/v1/leaderboard", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	top := decode[[]leaderboard.Entry](t, w)
	require.Len(t, top, 3)
	assert.Equal(t, "ProGamer123", top[0].Username)
	assert.Equal(t, 1, top[0].Position)

	w = env.do(http.MethodGet, "/api/v1/leaderboard?sort=wins&limit=1", nil, "")
	top = decode[[]leaderboard.Entry](t, w)
	require.Len(t, top, 1)
	assert.Equal(t, "Rookie", top[0].Username)

	w = env.do(http.MethodGet, "/api/v1/leaderboard?sort=winrate", nil, "")
	top = decode[[]leaderboard.Entry](t, w)
	assert.Equal(t, "ESportsMaster", top[0].Username)
	assert.Equal(t, 73.1, top[0].WinRate)

	w = env.do(http.MethodGet, "/api/v1/leaderboard?sort=kills", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/api/v1/leaderboard?limit=ten", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
