package handlers

import (
	"net/http"

	"github.com/vilanovax/karbarg/internal/config"
	"github.com/vilanovax/karbarg/internal/services"
	"github.com/vilanovax/karbarg/internal/utils"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	cfg config.Scoring
}

func NewLeaderboardHandler(cfg config.Scoring) *LeaderboardHandler {
	return &LeaderboardHandler{cfg: cfg}
}

// List - GET /qa/leaderboard?period=all|month|week&category=&limit=
func (h *LeaderboardHandler) List(c *gin.Context) {
	period := services.Window(c.DefaultQuery("period", "all"))
	if !period.Valid() {
		Fail(c, http.StatusBadRequest, "validation", "بازه زمانی نامعتبر است")
		return
	}
	category := c.Query("category")
	limit := utils.StringToInt(c.Query("limit"))

	entries, err := services.Leaderboard(period, category, limit, h.cfg)
	if err != nil {
		Fail(c, http.StatusInternalServerError, "internal", "خطا در محاسبه جدول امتیازها")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"period":      period,
		"category":    category,
		"leaderboard": entries,
	})
}
