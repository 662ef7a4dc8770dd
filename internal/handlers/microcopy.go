package handlers

import (
	"errors"
	"net/http"

	"github.com/vilanovax/karbarg/internal/config"
	"github.com/vilanovax/karbarg/internal/middleware"
	"github.com/vilanovax/karbarg/internal/models"
	"github.com/vilanovax/karbarg/internal/services"
	"github.com/vilanovax/karbarg/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MicrocopyHandler struct {
	cfg config.Scoring
}

func NewMicrocopyHandler(cfg config.Scoring) *MicrocopyHandler {
	return &MicrocopyHandler{cfg: cfg}
}

// Active - GET /microcopy/active?segment=
func (h *MicrocopyHandler) Active(c *gin.Context) {
	segment := models.UserSegment(c.Query("segment"))
	if segment != "" && !segment.Valid() {
		Fail(c, http.StatusBadRequest, "validation", "بخش کاربری نامعتبر است")
		return
	}

	defs, err := services.ActiveMicrocopy(segment)
	if err != nil {
		Fail(c, http.StatusInternalServerError, "internal", "خطا در دریافت پیام‌ها")
		return
	}
	c.JSON(http.StatusOK, gin.H{"microcopy": defs})
}

type microcopyEventRequest struct {
	MicrocopyKey  string                    `json:"microcopyId" binding:"required"`
	EventType     models.MicrocopyEventType `json:"eventType" binding:"required"`
	TriggerRuleID string                    `json:"triggerRuleId"`
	Segment       models.UserSegment        `json:"segment" binding:"required"`
}

// RecordEvent - POST /microcopy/events
func (h *MicrocopyHandler) RecordEvent(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req microcopyEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "validation", "شناسه پیام، نوع رویداد و بخش کاربری لازم است")
		return
	}

	event, err := services.RecordMicrocopyEvent(user.ID, req.MicrocopyKey, req.EventType, req.TriggerRuleID, req.Segment)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		Fail(c, http.StatusNotFound, "not_found", "پیام پیدا نشد")
		return
	case errors.Is(err, services.ErrMicrocopyDisabled):
		Fail(c, http.StatusConflict, "conflict", "این پیام غیرفعال است")
		return
	case errors.Is(err, services.ErrMicrocopyInvalid):
		Fail(c, http.StatusBadRequest, "validation", "رویداد نامعتبر است")
		return
	case err != nil:
		Fail(c, http.StatusInternalServerError, "internal", "ثبت رویداد ناموفق بود")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": event})
}

type microcopyActionRequest struct {
	ReputationDelta int `json:"reputationDelta"`
}

// RecordAction - POST /microcopy/events/:id/action
func (h *MicrocopyHandler) RecordAction(c *gin.Context) {
	user := middleware.CurrentUser(c)
	eventID := utils.StringToUint(c.Param("id"))

	var req microcopyActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "validation", "بدنه درخواست نامعتبر است")
		return
	}

	action, err := services.RecordMicrocopyAction(eventID, user.ID, req.ReputationDelta)
	switch {
	case errors.Is(err, services.ErrEventNotFound):
		Fail(c, http.StatusNotFound, "not_found", "رویداد پیدا نشد")
		return
	case err != nil:
		Fail(c, http.StatusInternalServerError, "internal", "ثبت اقدام ناموفق بود")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"action": action})
}

// Stats - GET /admin/microcopy/stats?days=N
func (h *MicrocopyHandler) Stats(c *gin.Context) {
	days := utils.StringToInt(c.DefaultQuery("days", "30"))

	report, err := services.MicrocopyStats(days, h.cfg)
	if err != nil {
		Fail(c, http.StatusInternalServerError, "internal", "خطا در محاسبه آمار")
		return
	}

	c.JSON(http.StatusOK, report)
}

type toggleDefinitionRequest struct {
	ID        uint  `json:"id" binding:"required"`
	IsEnabled *bool `json:"isEnabled" binding:"required"`
}

// ToggleDefinition - PATCH /admin/microcopy/definitions
func (h *MicrocopyHandler) ToggleDefinition(c *gin.Context) {
	var req toggleDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "validation", "شناسه و وضعیت پیام لازم است")
		return
	}

	err := services.ToggleMicrocopy(req.ID, *req.IsEnabled)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		Fail(c, http.StatusNotFound, "not_found", "پیام پیدا نشد")
		return
	case err != nil:
		Fail(c, http.StatusInternalServerError, "internal", "به‌روزرسانی پیام ناموفق بود")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": req.ID, "isEnabled": *req.IsEnabled})
}
