package handler

import (
	"net/http"
	"strconv"

	"gamearena/backend/internal/leaderboard"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	svc *leaderboard.Service
}

func NewLeaderboardHandler(svc *leaderboard.Service) *LeaderboardHandler {
	return &LeaderboardHandler{svc: svc}
}

// GetLeaderboard godoc
// @Summary      Top players
// @Description  Ranks players by total earnings, games won or win rate.
// @Tags         leaderboard
// @Produce      json
// @Param        sort  query string false "Ranking" Enums(earnings, wins, winrate) default(earnings)
// @Param        limit query int    false "Number of players" default(10)
// @Success      200  {array}   leaderboard.Entry
// @Failure      400  {object}  ErrorResponse
// @Router       /leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	by, err := leaderboard.ParseSort(c.Query("sort"))
	if err != nil {
		respondError(c, err)
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(leaderboard.DefaultLimit)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}

	entries, err := h.svc.Top(c.Request.Context(), by, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
