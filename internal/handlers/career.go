package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/vilanovax/karbarg/internal/db"
	"github.com/vilanovax/karbarg/internal/middleware"
	"github.com/vilanovax/karbarg/internal/models"
	"github.com/vilanovax/karbarg/internal/services"
	"github.com/vilanovax/karbarg/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CareerHandler struct{}

func NewCareerHandler() *CareerHandler {
	return &CareerHandler{}
}

const careerLevelsCacheKey = "career:levels"

// Levels - GET /career/levels
// Static track content, cached.
func (h *CareerHandler) Levels(c *gin.Context) {
	if cached := utils.GetCache().Get(careerLevelsCacheKey); cached != nil {
		c.JSON(http.StatusOK, gin.H{"levels": cached})
		return
	}

	var levels []models.CareerLevel
	if err := db.DB.Preload("Tasks", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	}).Order("position ASC").Find(&levels).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "internal", "خطا در دریافت مسیر شغلی")
		return
	}

	utils.GetCache().Set(careerLevelsCacheKey, levels, 10*time.Minute)
	c.JSON(http.StatusOK, gin.H{"levels": levels})
}

// Progress - GET /career/progress/:levelId
func (h *CareerHandler) Progress(c *gin.Context) {
	user := middleware.CurrentUser(c)
	levelID := utils.StringToUint(c.Param("levelId"))

	view, err := services.GetLevelProgress(user.ID, levelID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		Fail(c, http.StatusNotFound, "not_found", "سطح پیدا نشد")
		return
	}
	if err != nil {
		Fail(c, http.StatusInternalServerError, "internal", "خطا در دریافت پیشرفت")
		return
	}

	c.JSON(http.StatusOK, view)
}

// StartTask - POST /career/levels/:levelId/tasks/:taskId/start
func (h *CareerHandler) StartTask(c *gin.Context) {
	user := middleware.CurrentUser(c)
	levelID := utils.StringToUint(c.Param("levelId"))
	taskID := utils.StringToUint(c.Param("taskId"))

	err := services.StartTask(user.ID, levelID, taskID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		Fail(c, http.StatusNotFound, "not_found", "سطح یا وظیفه پیدا نشد")
		return
	case errors.Is(err, services.ErrTaskNotStartable):
		Fail(c, http.StatusConflict, "conflict", "این وظیفه در وضعیت قابل شروع نیست")
		return
	case err != nil:
		Fail(c, http.StatusInternalServerError, "internal", "شروع وظیفه ناموفق بود")
		return
	}

	c.Status(http.StatusNoContent)
}

// CompleteTask - POST /career/levels/:levelId/tasks/:taskId/complete
func (h *CareerHandler) CompleteTask(c *gin.Context) {
	user := middleware.CurrentUser(c)
	levelID := utils.StringToUint(c.Param("levelId"))
	taskID := utils.StringToUint(c.Param("taskId"))

	reward, err := services.CompleteTask(user.ID, levelID, taskID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		Fail(c, http.StatusNotFound, "not_found", "سطح یا وظیفه پیدا نشد")
		return
	case errors.Is(err, services.ErrTaskLocked):
		Fail(c, http.StatusConflict, "conflict", "وظیفه‌های قبلی هنوز کامل نشده‌اند")
		return
	case errors.Is(err, services.ErrTaskDone):
		Fail(c, http.StatusConflict, "conflict", "این وظیفه قبلا کامل شده است")
		return
	case err != nil:
		Fail(c, http.StatusInternalServerError, "internal", "تکمیل وظیفه ناموفق بود")
		return
	}

	payload := gin.H{"completed": taskID}
	if reward != nil {
		payload["reward"] = reward
	}
	c.JSON(http.StatusOK, payload)
}
