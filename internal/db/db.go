package db

import (
	"os"

	"github.com/vilanovax/karbarg/internal/logger"
	"github.com/vilanovax/karbarg/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=karbarg port=5432 sslmode=disable TimeZone=Asia/Tehran"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.L.Fatalf("Failed to connect to database: %v", err)
	}

	logger.L.Info("Database connection established")

	err = DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Question{},
		&models.Answer{},
		&models.AnswerReaction{},
		&models.AnswerQualityMetric{},
		&models.ReputationLog{},
		&models.MicrocopyDefinition{},
		&models.MicrocopyEvent{},
		&models.MicrocopyAction{},
		&models.CareerLevel{},
		&models.LevelTask{},
		&models.LevelProgress{},
	)
	if err != nil {
		logger.L.Fatalf("Failed to migrate database: %v", err)
	}
	logger.L.Info("Database migration completed")

	seedCategories()
	seedCareerTrack()
	seedMicrocopy()
}

func seedCategories() {
	var count int64
	DB.Model(&models.Category{}).Count(&count)
	if count > 0 {
		return
	}

	categories := []models.Category{
		{Slug: "financial-accounting", Name: "حسابداری مالی", Description: "ثبت اسناد، صورت‌های مالی و استانداردهای حسابداری"},
		{Slug: "tax", Name: "مالیات", Description: "مالیات بر درآمد، ارزش افزوده و اظهارنامه"},
		{Slug: "audit", Name: "حسابرسی", Description: "حسابرسی داخلی و مستقل"},
		{Slug: "payroll", Name: "حقوق و دستمزد", Description: "محاسبه حقوق، بیمه و اضافه‌کاری"},
		{Slug: "management-accounting", Name: "حسابداری مدیریت", Description: "بهای تمام‌شده و بودجه‌بندی"},
	}

	for _, cat := range categories {
		if err := DB.Create(&cat).Error; err != nil {
			logger.L.Errorf("Failed to create category %s: %v", cat.Slug, err)
		}
	}
	logger.L.Info("Initial categories created")
}

func seedCareerTrack() {
	var count int64
	DB.Model(&models.CareerLevel{}).Count(&count)
	if count > 0 {
		return
	}

	levels := []models.CareerLevel{
		{
			Slug: "junior-bookkeeper", Title: "کمک حسابدار", Position: 1,
			RewardPoints: 50, RewardBadge: "دفتردار",
			Tasks: []models.LevelTask{
				{Position: 1, Title: "آشنایی با اسناد حسابداری", Kind: models.TaskStudy},
				{Position: 2, Title: "ثبت ده سند تمرینی", Kind: models.TaskPractice},
				{Position: 3, Title: "آزمون مبانی حسابداری", Kind: models.TaskQuiz},
			},
		},
		{
			Slug: "staff-accountant", Title: "حسابدار", Position: 2,
			RewardPoints: 100, RewardBadge: "حسابدار رسمی مسیر",
			Tasks: []models.LevelTask{
				{Position: 1, Title: "تهیه تراز آزمایشی", Kind: models.TaskStudy},
				{Position: 2, Title: "بستن حساب‌های موقت", Kind: models.TaskPractice},
				{Position: 3, Title: "تهیه صورت سود و زیان", Kind: models.TaskProject},
				{Position: 4, Title: "آزمون صورت‌های مالی", Kind: models.TaskQuiz},
			},
		},
		{
			Slug: "senior-accountant", Title: "حسابدار ارشد", Position: 3,
			RewardPoints: 200, RewardBadge: "",
			Tasks: []models.LevelTask{
				{Position: 1, Title: "تحلیل نسبت‌های مالی", Kind: models.TaskStudy},
				{Position: 2, Title: "تهیه اظهارنامه مالیاتی نمونه", Kind: models.TaskProject},
				{Position: 3, Title: "آزمون جامع پایان مسیر", Kind: models.TaskQuiz},
			},
		},
	}

	for _, level := range levels {
		if err := DB.Create(&level).Error; err != nil {
			logger.L.Errorf("Failed to create career level %s: %v", level.Slug, err)
		}
	}
	logger.L.Info("Career track seeded")
}

func seedMicrocopy() {
	var count int64
	DB.Model(&models.MicrocopyDefinition{}).Count(&count)
	if count > 0 {
		return
	}

	definitions := []models.MicrocopyDefinition{
		{Key: "complete-profile", Text: "پروفایل خود را کامل کنید تا کارفرماها شما را بهتر بشناسند", Segment: models.SegmentNew},
		{Key: "first-answer-nudge", Text: "به اولین سوال پاسخ دهید و امتیاز بگیرید", Segment: models.SegmentNew},
		{Key: "accept-answer-reminder", Text: "اگر پاسخی مشکل شما را حل کرد، آن را به عنوان پاسخ برگزیده علامت بزنید"},
		{Key: "career-path-invite", Text: "مسیر شغلی حسابداری را شروع کنید", Segment: models.SegmentJunior},
		{Key: "expert-react-prompt", Text: "پاسخ‌های حرفه‌ای را با نشان متخصص تایید کنید", Segment: models.SegmentProfessional},
	}

	for _, def := range definitions {
		if err := DB.Create(&def).Error; err != nil {
			logger.L.Errorf("Failed to create microcopy %s: %v", def.Key, err)
		}
	}
	logger.L.Info("Microcopy definitions seeded")
}
