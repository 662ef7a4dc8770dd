package handlers

import (
	"errors"
	"net/http"

	"github.com/vilanovax/karbarg/internal/db"
	"github.com/vilanovax/karbarg/internal/middleware"
	"github.com/vilanovax/karbarg/internal/models"
	"github.com/vilanovax/karbarg/internal/services"
	"github.com/vilanovax/karbarg/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AnswerHandler struct{}

func NewAnswerHandler() *AnswerHandler {
	return &AnswerHandler{}
}

type createAnswerRequest struct {
	Body string `json:"body" binding:"required,min=20,max=20000"`
}

// Create - POST /questions/:qid/answers
func (h *AnswerHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	qid := c.Param("qid")

	var question models.Question
	if err := db.DB.Where("qid = ?", qid).First(&question).Error; err != nil {
		Fail(c, http.StatusNotFound, "not_found", "سوال پیدا نشد")
		return
	}
	if question.IsHidden {
		Fail(c, http.StatusNotFound, "not_found", "سوال پیدا نشد")
		return
	}

	var req createAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "validation", "متن پاسخ در محدوده مجاز لازم است")
		return
	}

	answer := models.Answer{
		Aid:        utils.RandID(8),
		QuestionID: question.ID,
		UserID:     user.ID,
		Body:       req.Body,
	}
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&answer).Error; err != nil {
			return err
		}
		return tx.Model(&models.Question{}).
			Where("id = ?", question.ID).
			UpdateColumn("answers_count", gorm.Expr("answers_count + ?", 1)).
			Error
	})
	if err != nil {
		Fail(c, http.StatusInternalServerError, "internal", "ثبت پاسخ ناموفق بود")
		return
	}

	// Seed the quality row so the answer carries a label from the start.
	if svc := services.GetQualityService(); svc != nil {
		svc.ScheduleRecompute(answer.ID)
	}

	c.JSON(http.StatusCreated, gin.H{"answer": answer})
}

type reactionRequest struct {
	Type models.ReactionType `json:"type" binding:"required"`
}

// Reaction - POST /answers/:aid/reaction
func (h *AnswerHandler) Reaction(c *gin.Context) {
	user := middleware.CurrentUser(c)
	aid := c.Param("aid")

	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Type.Valid() {
		Fail(c, http.StatusBadRequest, "validation", "نوع واکنش نامعتبر است")
		return
	}

	var answer models.Answer
	if err := db.DB.Where("aid = ?", aid).First(&answer).Error; err != nil {
		Fail(c, http.StatusNotFound, "not_found", "پاسخ پیدا نشد")
		return
	}

	result, err := services.ToggleReaction(user.ID, answer.ID, req.Type)
	if err != nil {
		Fail(c, http.StatusInternalServerError, "internal", "ثبت واکنش ناموفق بود")
		return
	}

	c.JSON(http.StatusOK, result)
}

type acceptRequest struct {
	AnswerID uint `json:"answerId" binding:"required"`
}

// Accept - POST /questions/:qid/accept
func (h *AnswerHandler) Accept(c *gin.Context) {
	user := middleware.CurrentUser(c)
	qid := c.Param("qid")

	var question models.Question
	if err := db.DB.Where("qid = ?", qid).First(&question).Error; err != nil {
		Fail(c, http.StatusNotFound, "not_found", "سوال پیدا نشد")
		return
	}

	var req acceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "validation", "شناسه پاسخ لازم است")
		return
	}

	err := services.AcceptAnswer(question.ID, req.AnswerID, user.ID)
	switch {
	case errors.Is(err, services.ErrNotQuestionOwner):
		Fail(c, http.StatusConflict, "conflict", "فقط نویسنده سوال می‌تواند پاسخ برگزیده را انتخاب کند")
		return
	case errors.Is(err, services.ErrQuestionHidden):
		Fail(c, http.StatusConflict, "conflict", "سوال مخفی شده است")
		return
	case errors.Is(err, services.ErrAnswerMismatch):
		Fail(c, http.StatusBadRequest, "validation", "پاسخ متعلق به این سوال نیست")
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		Fail(c, http.StatusNotFound, "not_found", "پاسخ پیدا نشد")
		return
	case err != nil:
		Fail(c, http.StatusInternalServerError, "internal", "انتخاب پاسخ برگزیده ناموفق بود")
		return
	}

	c.JSON(http.StatusOK, gin.H{"accepted": req.AnswerID})
}
