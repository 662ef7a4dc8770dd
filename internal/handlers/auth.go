package handlers

import (
	"net/http"

	"github.com/vilanovax/karbarg/internal/db"
	"github.com/vilanovax/karbarg/internal/models"
	"github.com/vilanovax/karbarg/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=40"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "validation", "نام کاربری، ایمیل و گذرواژه معتبر لازم است")
		return
	}

	var count int64
	db.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		Fail(c, http.StatusConflict, "conflict", "این ایمیل قبلا ثبت شده است")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		Fail(c, http.StatusInternalServerError, "internal", "خطای داخلی")
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
		Segment:  models.SegmentNew,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "internal", "ثبت‌نام ناموفق بود")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "validation", "ایمیل و گذرواژه لازم است")
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		Fail(c, http.StatusUnauthorized, "unauthenticated", "ایمیل یا گذرواژه نادرست است")
		return
	}
	if !utils.CheckPasswordHash(req.Password, user.Password) {
		Fail(c, http.StatusUnauthorized, "unauthenticated", "ایمیل یا گذرواژه نادرست است")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Status(http.StatusNoContent)
}
