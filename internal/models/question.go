package models

import (
	"time"
)

type Question struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Qid          string    `gorm:"uniqueIndex;size:8;not null" json:"qid"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	User         User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	CategoryID   uint      `gorm:"not null;index;default:1" json:"category_id"`
	Category     Category  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
	Title        string    `gorm:"not null" json:"title"`
	Body         string    `gorm:"type:text" json:"body"`
	Tags         string    `gorm:"size:200" json:"tags"`           // comma separated
	AnswersCount int       `gorm:"default:0" json:"answers_count"` // denormalized, bumped on answer create
	Views        int       `gorm:"default:0" json:"views"`
	IsHidden     bool      `gorm:"default:false;index" json:"is_hidden"` // soft delete once answered
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
