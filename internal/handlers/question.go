package handlers

import (
	"net/http"

	"github.com/vilanovax/karbarg/internal/db"
	"github.com/vilanovax/karbarg/internal/middleware"
	"github.com/vilanovax/karbarg/internal/models"
	"github.com/vilanovax/karbarg/internal/services"
	"github.com/vilanovax/karbarg/internal/utils"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct{}

func NewQuestionHandler() *QuestionHandler {
	return &QuestionHandler{}
}

// List - GET /questions?category=&limit=
func (h *QuestionHandler) List(c *gin.Context) {
	limit := utils.StringToInt(c.DefaultQuery("limit", "30"))
	if limit <= 0 || limit > 100 {
		limit = 30
	}

	query := db.DB.Model(&models.Question{}).Select("questions.*").
		Preload("User").Preload("Category").
		Where("questions.is_hidden = ?", false).
		Order("questions.created_at DESC").
		Limit(limit)
	if slug := c.Query("category"); slug != "" {
		query = query.
			Joins("JOIN categories ON categories.id = questions.category_id").
			Where("categories.slug = ?", slug)
	}

	var questions []models.Question
	if err := query.Find(&questions).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "internal", "خطا در دریافت سوال‌ها")
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// Detail - GET /questions/:qid
// Answers come back ranked: accepted first, then AQS descending, then newest.
func (h *QuestionHandler) Detail(c *gin.Context) {
	qid := c.Param("qid")

	var question models.Question
	if err := db.DB.Preload("User").Preload("Category").
		Where("qid = ?", qid).First(&question).Error; err != nil {
		Fail(c, http.StatusNotFound, "not_found", "سوال پیدا نشد")
		return
	}
	if question.IsHidden {
		Fail(c, http.StatusNotFound, "not_found", "سوال پیدا نشد")
		return
	}

	var answers []models.Answer
	if err := db.DB.Model(&models.Answer{}).Select("answers.*").
		Preload("User").
		Joins("LEFT JOIN answer_quality_metrics aqm ON aqm.answer_id = answers.id").
		Where("answers.question_id = ?", question.ID).
		Order("answers.is_accepted DESC, COALESCE(aqm.aqs, 0) DESC, answers.created_at DESC").
		Find(&answers).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "internal", "خطا در دریافت پاسخ‌ها")
		return
	}
	fillQualityMetrics(answers)

	// Best-effort view bump; the response never waits for it.
	viewedAnswers := make([]uint, len(answers))
	for i, a := range answers {
		viewedAnswers[i] = a.ID
	}
	go services.RecordQuestionView(question.ID, viewedAnswers)

	payload := gin.H{
		"question":  question,
		"body_html": utils.RenderMarkdown(question.Body),
		"asked_at":  utils.JalaliDateTime(question.CreatedAt),
		"answers":   make([]gin.H, 0, len(answers)),
	}
	answerItems := payload["answers"].([]gin.H)
	for _, answer := range answers {
		answerItems = append(answerItems, gin.H{
			"answer":      answer,
			"body_html":   utils.RenderMarkdown(answer.Body),
			"answered_at": utils.JalaliDateTime(answer.CreatedAt),
		})
	}
	payload["answers"] = answerItems

	c.JSON(http.StatusOK, payload)
}

// fillQualityMetrics batch loads quality rows for a set of answers.
func fillQualityMetrics(answers []models.Answer) {
	if len(answers) == 0 {
		return
	}

	answerIDs := make([]uint, len(answers))
	for i, a := range answers {
		answerIDs[i] = a.ID
	}

	var metrics []models.AnswerQualityMetric
	db.DB.Where("answer_id IN ?", answerIDs).Find(&metrics)

	byAnswer := make(map[uint]models.AnswerQualityMetric, len(metrics))
	for _, m := range metrics {
		byAnswer[m.AnswerID] = m
	}
	for i := range answers {
		if m, ok := byAnswer[answers[i].ID]; ok {
			metric := m
			answers[i].Quality = &metric
		}
	}
}

type createQuestionRequest struct {
	Title      string `json:"title" binding:"required,min=10,max=200"`
	Body       string `json:"body" binding:"required,min=20,max=20000"`
	CategoryID uint   `json:"category_id" binding:"required"`
	Tags       string `json:"tags" binding:"max=200"`
}

// Create - POST /questions
func (h *QuestionHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "validation", "عنوان و متن سوال در محدوده مجاز لازم است")
		return
	}

	var category models.Category
	if err := db.DB.First(&category, req.CategoryID).Error; err != nil {
		Fail(c, http.StatusBadRequest, "validation", "دسته‌بندی نامعتبر است")
		return
	}

	question := models.Question{
		Qid:        utils.RandID(8),
		UserID:     user.ID,
		CategoryID: category.ID,
		Title:      req.Title,
		Body:       req.Body,
		Tags:       req.Tags,
	}
	if err := db.DB.Create(&question).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "internal", "ثبت سوال ناموفق بود")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"question": question})
}

type updateQuestionRequest struct {
	Title string `json:"title" binding:"omitempty,min=10,max=200"`
	Body  string `json:"body" binding:"omitempty,min=20,max=20000"`
}

// Update - PATCH /questions/:qid
// Title is editable only while the question has no answers; body always. Author
// only, and never on a hidden question.
func (h *QuestionHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	qid := c.Param("qid")

	var question models.Question
	if err := db.DB.Where("qid = ?", qid).First(&question).Error; err != nil {
		Fail(c, http.StatusNotFound, "not_found", "سوال پیدا نشد")
		return
	}
	if question.IsHidden {
		Fail(c, http.StatusConflict, "conflict", "سوال مخفی قابل ویرایش نیست")
		return
	}
	if question.UserID != user.ID {
		Fail(c, http.StatusForbidden, "forbidden", "فقط نویسنده سوال می‌تواند آن را ویرایش کند")
		return
	}

	var req updateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "validation", "طول عنوان یا متن خارج از محدوده مجاز است")
		return
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		if question.AnswersCount > 0 {
			Fail(c, http.StatusConflict, "conflict", "پس از دریافت پاسخ، عنوان قابل تغییر نیست")
			return
		}
		updates["title"] = req.Title
	}
	if req.Body != "" {
		updates["body"] = req.Body
	}
	if len(updates) == 0 {
		Fail(c, http.StatusBadRequest, "validation", "موردی برای ویرایش ارسال نشده است")
		return
	}

	if err := db.DB.Model(&question).Updates(updates).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "internal", "ویرایش سوال ناموفق بود")
		return
	}

	c.JSON(http.StatusOK, gin.H{"question": question})
}
