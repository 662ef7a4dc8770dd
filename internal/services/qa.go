package services

import (
	"errors"

	"github.com/vilanovax/karbarg/internal/db"
	"github.com/vilanovax/karbarg/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotQuestionOwner = errors.New("only the question author may accept an answer")
	ErrQuestionHidden   = errors.New("question is hidden")
	ErrAnswerMismatch   = errors.New("answer does not belong to this question")
)

// Reaction toggle outcomes.
const (
	ReactionAdded   = "added"
	ReactionChanged = "changed"
	ReactionRemoved = "removed"
)

// ReactionResult reports a toggle outcome with the fresh counters.
type ReactionResult struct {
	Action       string `json:"action"`
	HelpfulCount int    `json:"helpfulCount"`
	ExpertCount  int    `json:"expertCount"`
}

// counterColumn maps a reaction type to the denormalized counter it drives;
// not_helpful has no counter, it only lives in the reaction table.
func counterColumn(t models.ReactionType) string {
	switch t {
	case models.ReactionHelpful:
		return "helpful_count"
	case models.ReactionExpert:
		return "expert_count"
	}
	return ""
}

// ToggleReaction upserts the caller's single reaction on an answer. Repeating
// the same type removes it, a different type replaces it. The (user, answer)
// unique index keeps concurrent toggles from creating duplicates.
func ToggleReaction(userID, answerID uint, rtype models.ReactionType) (*ReactionResult, error) {
	var answer models.Answer
	if err := db.DB.First(&answer, answerID).Error; err != nil {
		return nil, err
	}

	action := ReactionAdded
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.AnswerReaction
		err := tx.Where("user_id = ? AND answer_id = ?", userID, answerID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			reaction := models.AnswerReaction{UserID: userID, AnswerID: answerID, Type: rtype}
			if err := tx.Create(&reaction).Error; err != nil {
				return err
			}
			return bumpCounter(tx, answerID, counterColumn(rtype), +1)
		case err != nil:
			return err
		case existing.Type == rtype:
			action = ReactionRemoved
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			return bumpCounter(tx, answerID, counterColumn(rtype), -1)
		default:
			action = ReactionChanged
			old := existing.Type
			if err := tx.Model(&existing).Update("type", rtype).Error; err != nil {
				return err
			}
			if err := bumpCounter(tx, answerID, counterColumn(old), -1); err != nil {
				return err
			}
			return bumpCounter(tx, answerID, counterColumn(rtype), +1)
		}
	})
	if err != nil {
		return nil, err
	}

	// Quality follows the new counts asynchronously.
	if svc := GetQualityService(); svc != nil {
		svc.ScheduleRecompute(answerID)
	}

	if err := db.DB.First(&answer, answerID).Error; err != nil {
		return nil, err
	}
	return &ReactionResult{
		Action:       action,
		HelpfulCount: answer.HelpfulCount,
		ExpertCount:  answer.ExpertCount,
	}, nil
}

// RecordQuestionView bumps the view count on a question and on the answers
// displayed with it. Answer views feed the quality score, so the touched
// answers go through the recompute queue.
func RecordQuestionView(questionID uint, answerIDs []uint) error {
	if err := db.DB.Model(&models.Question{}).
		Where("id = ?", questionID).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).
		Error; err != nil {
		return err
	}
	if len(answerIDs) == 0 {
		return nil
	}
	if err := db.DB.Model(&models.Answer{}).
		Where("id IN ?", answerIDs).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).
		Error; err != nil {
		return err
	}
	if svc := GetQualityService(); svc != nil {
		for _, id := range answerIDs {
			svc.ScheduleRecompute(id)
		}
	}
	return nil
}

func bumpCounter(tx *gorm.DB, answerID uint, column string, delta int) error {
	if column == "" {
		return nil
	}
	return tx.Model(&models.Answer{}).
		Where("id = ?", answerID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).
		Error
}

// AcceptAnswer marks one answer as the question's chosen solution. Any
// previously accepted answer is unset in the same transaction, keeping the
// at-most-one invariant through any sequence of accepts.
func AcceptAnswer(questionID, answerID, callerID uint) error {
	var question models.Question
	if err := db.DB.First(&question, questionID).Error; err != nil {
		return err
	}
	if question.IsHidden {
		return ErrQuestionHidden
	}
	if question.UserID != callerID {
		return ErrNotQuestionOwner
	}

	var answer models.Answer
	if err := db.DB.First(&answer, answerID).Error; err != nil {
		return err
	}
	if answer.QuestionID != questionID {
		return ErrAnswerMismatch
	}

	var previousID uint
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var previous models.Answer
		if err := tx.Where("question_id = ? AND is_accepted = ?", questionID, true).
			First(&previous).Error; err == nil {
			previousID = previous.ID
		}

		if err := tx.Model(&models.Answer{}).
			Where("question_id = ?", questionID).
			Updates(map[string]interface{}{"is_accepted": false, "accepted_at": nil}).
			Error; err != nil {
			return err
		}

		return tx.Model(&models.Answer{}).
			Where("id = ?", answerID).
			Updates(map[string]interface{}{"is_accepted": true, "accepted_at": gorm.Expr("NOW()")}).
			Error
	})
	if err != nil {
		return err
	}

	// The STAR label must be visible on the next read.
	if svc := GetQualityService(); svc != nil {
		if err := svc.RecomputeAnswer(answerID); err != nil {
			return err
		}
		if previousID != 0 && previousID != answerID {
			svc.ScheduleRecompute(previousID)
		}
	}

	if answer.UserID != callerID && previousID != answerID {
		AddReputationAsync(answer.UserID, PointsAnswerAccepted, ActionAnswerAccepted)
	}
	return nil
}
