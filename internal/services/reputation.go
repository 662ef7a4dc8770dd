package services

import (
	"fmt"
	"time"

	"github.com/vilanovax/karbarg/internal/config"
	"github.com/vilanovax/karbarg/internal/db"
	"github.com/vilanovax/karbarg/internal/models"

	"gorm.io/gorm"
)

// Reputation ledger actions
const (
	ActionAnswerAccepted = "پاسخ برگزیده شد"
	ActionLevelCompleted = "تکمیل سطح مسیر شغلی"
	ActionMicrocopyBonus = "پاداش اقدام"
)

// Ledger grant for having an answer accepted, separate from the computed
// leaderboard score.
const PointsAnswerAccepted = 10

// Window restricts aggregation to a time period.
type Window string

const (
	WindowAll   Window = "all"
	WindowMonth Window = "month"
	WindowWeek  Window = "week"
)

func (w Window) Valid() bool {
	return w == WindowAll || w == WindowMonth || w == WindowWeek
}

// Since returns the cutoff for the window; zero time means unbounded.
func (w Window) Since(now time.Time) time.Time {
	switch w {
	case WindowWeek:
		return now.AddDate(0, 0, -7)
	case WindowMonth:
		return now.AddDate(0, -1, 0)
	default:
		return time.Time{}
	}
}

// AddReputation appends a ledger entry and updates the user balance in one
// transaction.
func AddReputation(userID uint, amount int, action string) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		entry := models.ReputationLog{
			UserID: userID,
			Amount: amount,
			Action: action,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("reputation", gorm.Expr("reputation + ?", amount)).
			Error
	})
}

// AddReputationAsync grants in the background; best effort.
func AddReputationAsync(userID uint, amount int, action string) {
	go func() {
		_ = AddReputation(userID, amount, action)
	}()
}

// ComputeScore applies the leaderboard weight formula to one user's aggregates.
func ComputeScore(st models.UserStats, cfg config.Scoring) int {
	return st.TotalAnswers*cfg.WeightAnswer +
		st.AcceptedAnswers*cfg.WeightAccepted +
		st.HelpfulReactions*cfg.WeightHelpful +
		st.ExpertReactions*cfg.WeightExpert +
		st.TotalQuestions*cfg.WeightQuestion
}

// TierFor maps a leaderboard score to the expert tier.
func TierFor(score int, cfg config.Scoring) models.ExpertTier {
	switch {
	case score >= cfg.TierTopExpert:
		return models.TierTopExpert
	case score >= cfg.TierExpert:
		return models.TierExpert
	case score >= cfg.TierSenior:
		return models.TierSenior
	case score >= cfg.TierSpecialist:
		return models.TierSpecialist
	case score >= cfg.TierContributor:
		return models.TierContributor
	default:
		return models.TierNewcomer
	}
}

// Aggregate computes per-user activity stats for the window and optional
// category slug. Users with no question or answer in scope are excluded. Pure
// read: recomputed every call, nothing is persisted.
func Aggregate(window Window, categorySlug string, cfg config.Scoring) ([]models.UserStats, error) {
	if !window.Valid() {
		return nil, fmt.Errorf("invalid leaderboard period %q", window)
	}
	since := window.Since(time.Now())

	byUser := make(map[uint]*models.UserStats)
	get := func(userID uint) *models.UserStats {
		st, ok := byUser[userID]
		if !ok {
			st = &models.UserStats{UserID: userID}
			byUser[userID] = st
		}
		return st
	}

	// Answers (and accepted answers) per author.
	type answerRow struct {
		UserID   uint
		Total    int
		Accepted int
	}
	var answerRows []answerRow
	answers := db.DB.Model(&models.Answer{}).
		Select("answers.user_id, COUNT(*) AS total, SUM(CASE WHEN answers.is_accepted THEN 1 ELSE 0 END) AS accepted").
		Joins("JOIN questions ON questions.id = answers.question_id").
		Where("questions.is_hidden = ?", false).
		Group("answers.user_id")
	if !since.IsZero() {
		answers = answers.Where("answers.created_at >= ?", since)
	}
	if categorySlug != "" {
		answers = answers.
			Joins("JOIN categories ON categories.id = questions.category_id").
			Where("categories.slug = ?", categorySlug)
	}
	if err := answers.Scan(&answerRows).Error; err != nil {
		return nil, err
	}
	for _, row := range answerRows {
		st := get(row.UserID)
		st.TotalAnswers = row.Total
		st.AcceptedAnswers = row.Accepted
	}

	// Reactions received, grouped by the answer's author.
	type reactionRow struct {
		UserID  uint
		Helpful int
		Expert  int
	}
	var reactionRows []reactionRow
	reactions := db.DB.Model(&models.AnswerReaction{}).
		Select("answers.user_id, "+
			"SUM(CASE WHEN answer_reactions.type = 'helpful' THEN 1 ELSE 0 END) AS helpful, "+
			"SUM(CASE WHEN answer_reactions.type = 'expert' THEN 1 ELSE 0 END) AS expert").
		Joins("JOIN answers ON answers.id = answer_reactions.answer_id").
		Joins("JOIN questions ON questions.id = answers.question_id").
		Where("questions.is_hidden = ?", false).
		Group("answers.user_id")
	if !since.IsZero() {
		reactions = reactions.Where("answers.created_at >= ?", since)
	}
	if categorySlug != "" {
		reactions = reactions.
			Joins("JOIN categories ON categories.id = questions.category_id").
			Where("categories.slug = ?", categorySlug)
	}
	if err := reactions.Scan(&reactionRows).Error; err != nil {
		return nil, err
	}
	for _, row := range reactionRows {
		st := get(row.UserID)
		st.HelpfulReactions = row.Helpful
		st.ExpertReactions = row.Expert
	}

	// Questions per author.
	type questionRow struct {
		UserID uint
		Total  int
	}
	var questionRows []questionRow
	questions := db.DB.Model(&models.Question{}).
		Select("questions.user_id, COUNT(*) AS total").
		Where("questions.is_hidden = ?", false).
		Group("questions.user_id")
	if !since.IsZero() {
		questions = questions.Where("questions.created_at >= ?", since)
	}
	if categorySlug != "" {
		questions = questions.
			Joins("JOIN categories ON categories.id = questions.category_id").
			Where("categories.slug = ?", categorySlug)
	}
	if err := questions.Scan(&questionRows).Error; err != nil {
		return nil, err
	}
	for _, row := range questionRows {
		get(row.UserID).TotalQuestions = row.Total
	}

	// A user only qualifies with at least one question or answer in scope;
	// reactions alone (on an out-of-window answer) do not count.
	stats := make([]models.UserStats, 0, len(byUser))
	userIDs := make([]uint, 0, len(byUser))
	for userID, st := range byUser {
		if st.TotalAnswers == 0 && st.TotalQuestions == 0 {
			continue
		}
		st.Score = ComputeScore(*st, cfg)
		stats = append(stats, *st)
		userIDs = append(userIDs, userID)
	}

	if len(userIDs) > 0 {
		var users []models.User
		if err := db.DB.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return nil, err
		}
		names := make(map[uint]models.User, len(users))
		for _, u := range users {
			names[u.ID] = u
		}
		for i := range stats {
			if u, ok := names[stats[i].UserID]; ok {
				stats[i].Username = u.Username
				stats[i].Headline = u.Headline
			}
		}
	}

	return stats, nil
}
