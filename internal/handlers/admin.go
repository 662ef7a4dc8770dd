package handlers

import (
	"net/http"

	"github.com/vilanovax/karbarg/internal/db"
	"github.com/vilanovax/karbarg/internal/models"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct{}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

// HideQuestion - POST /admin/questions/:qid/hide
// Questions with answers are hidden, never deleted.
func (h *AdminHandler) HideQuestion(c *gin.Context) {
	qid := c.Param("qid")

	var question models.Question
	if err := db.DB.Where("qid = ?", qid).First(&question).Error; err != nil {
		Fail(c, http.StatusNotFound, "not_found", "سوال پیدا نشد")
		return
	}

	if err := db.DB.Model(&question).Update("is_hidden", true).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "internal", "مخفی‌سازی سوال ناموفق بود")
		return
	}

	c.JSON(http.StatusOK, gin.H{"qid": qid, "is_hidden": true})
}
