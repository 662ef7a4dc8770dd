package models

import (
	"time"
)

type Answer struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Aid          string     `gorm:"uniqueIndex;size:8;not null" json:"aid"`
	QuestionID   uint       `gorm:"not null;index" json:"question_id"`
	Question     Question   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"question"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	User         User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Body         string     `gorm:"type:text;not null" json:"body"`
	HelpfulCount int        `gorm:"default:0" json:"helpful_count"` // denormalized from AnswerReaction
	ExpertCount  int        `gorm:"default:0" json:"expert_count"`
	Views        int        `gorm:"default:0" json:"views"`
	IsAccepted   bool       `gorm:"default:false;index" json:"is_accepted"` // at most one per question
	AcceptedAt   *time.Time `json:"accepted_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Filled at query time, not a column.
	Quality *AnswerQualityMetric `gorm:"-" json:"quality,omitempty"`
}
