package models

import (
	"time"
)

// ReactionType is the closed set of reactions a user can put on an answer.
type ReactionType string

const (
	ReactionHelpful    ReactionType = "helpful"
	ReactionNotHelpful ReactionType = "not_helpful"
	ReactionExpert     ReactionType = "expert" // peer endorsement as professionally authoritative
)

func (t ReactionType) Valid() bool {
	switch t {
	case ReactionHelpful, ReactionNotHelpful, ReactionExpert:
		return true
	}
	return false
}

// AnswerReaction holds one reaction per (user, answer); the unique index is the
// concurrency safeguard for the toggle path.
type AnswerReaction struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UserID    uint         `gorm:"not null;uniqueIndex:idx_user_answer" json:"user_id"`
	AnswerID  uint         `gorm:"not null;uniqueIndex:idx_user_answer;index" json:"answer_id"`
	Type      ReactionType `gorm:"size:20;not null" json:"type"`
	CreatedAt time.Time    `json:"created_at"`
}
