package handlers

import (
	"net/http"

	"github.com/vilanovax/karbarg/internal/config"
	"github.com/vilanovax/karbarg/internal/db"
	"github.com/vilanovax/karbarg/internal/models"
	"github.com/vilanovax/karbarg/internal/services"
	"github.com/vilanovax/karbarg/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	cfg config.Scoring
}

func NewUserHandler(cfg config.Scoring) *UserHandler {
	return &UserHandler{cfg: cfg}
}

// Profile - GET /users/:id
// Public profile with all-time activity stats and the derived expert tier.
func (h *UserHandler) Profile(c *gin.Context) {
	userID := utils.StringToUint(c.Param("id"))

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		Fail(c, http.StatusNotFound, "not_found", "کاربر پیدا نشد")
		return
	}

	stats := models.UserStats{UserID: user.ID, Username: user.Username, Headline: user.Headline}

	var answers int64
	db.DB.Model(&models.Answer{}).Where("user_id = ?", user.ID).Count(&answers)
	stats.TotalAnswers = int(answers)

	var accepted int64
	db.DB.Model(&models.Answer{}).Where("user_id = ? AND is_accepted = ?", user.ID, true).Count(&accepted)
	stats.AcceptedAnswers = int(accepted)

	var questions int64
	db.DB.Model(&models.Question{}).Where("user_id = ? AND is_hidden = ?", user.ID, false).Count(&questions)
	stats.TotalQuestions = int(questions)

	var helpful int64
	db.DB.Model(&models.AnswerReaction{}).
		Joins("JOIN answers ON answers.id = answer_reactions.answer_id").
		Where("answers.user_id = ? AND answer_reactions.type = ?", user.ID, models.ReactionHelpful).
		Count(&helpful)
	stats.HelpfulReactions = int(helpful)

	var expert int64
	db.DB.Model(&models.AnswerReaction{}).
		Joins("JOIN answers ON answers.id = answer_reactions.answer_id").
		Where("answers.user_id = ? AND answer_reactions.type = ?", user.ID, models.ReactionExpert).
		Count(&expert)
	stats.ExpertReactions = int(expert)

	stats.Score = services.ComputeScore(stats, h.cfg)

	c.JSON(http.StatusOK, gin.H{
		"user":      user,
		"stats":     stats,
		"tier":      services.TierFor(stats.Score, h.cfg),
		"joined_at": utils.JalaliDate(user.CreatedAt),
	})
}
