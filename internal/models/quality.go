package models

import (
	"time"
)

// QualityLabel is the badge tier derived from AQS and acceptance.
type QualityLabel string

const (
	LabelNormal QualityLabel = "NORMAL"
	LabelUseful QualityLabel = "USEFUL"
	LabelPro    QualityLabel = "PRO"
	LabelStar   QualityLabel = "STAR" // accepted answers, regardless of AQS
)

func (l QualityLabel) Valid() bool {
	switch l {
	case LabelNormal, LabelUseful, LabelPro, LabelStar:
		return true
	}
	return false
}

// AnswerQualityMetric caches the derived AQS and label for one answer. It is
// recomputed whenever the underlying reaction counts or the accepted flag change,
// never mutated on its own.
type AnswerQualityMetric struct {
	ID         uint         `gorm:"primaryKey" json:"-"`
	AnswerID   uint         `gorm:"uniqueIndex;not null" json:"answer_id"`
	AQS        int          `gorm:"not null;default:0" json:"aqs"` // 0-100
	Label      QualityLabel `gorm:"size:10;not null;default:'NORMAL'" json:"label"`
	ComputedAt time.Time    `json:"computed_at"`
}
