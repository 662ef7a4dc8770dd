package handlers

import (
	"net/http"
	"time"

	"github.com/vilanovax/karbarg/internal/db"
	"github.com/vilanovax/karbarg/internal/models"
	"github.com/vilanovax/karbarg/internal/utils"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct{}

func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

const categoryCacheKey = "categories:all"

// List - GET /categories
// Static content: served from the TTL cache.
func (h *CategoryHandler) List(c *gin.Context) {
	if cached := utils.GetCache().Get(categoryCacheKey); cached != nil {
		c.JSON(http.StatusOK, gin.H{"categories": cached})
		return
	}

	var categories []models.Category
	if err := db.DB.Order("id ASC").Find(&categories).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "internal", "خطا در دریافت دسته‌بندی‌ها")
		return
	}

	utils.GetCache().Set(categoryCacheKey, categories, 10*time.Minute)
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
