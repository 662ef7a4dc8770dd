package models

import (
	"time"
)

type User struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Username   string      `gorm:"not null" json:"username"`
	Email      string      `gorm:"uniqueIndex;not null" json:"email"`
	Password   string      `gorm:"not null" json:"-"` // bcrypt hash
	Headline   string      `gorm:"size:120" json:"headline"`
	Bio        string      `gorm:"size:500" json:"bio"`
	Segment    UserSegment `gorm:"size:20;default:'new'" json:"segment"`
	Reputation int         `gorm:"default:0" json:"reputation"`                 // ledger balance, see ReputationLog
	Role       string      `gorm:"size:20;default:'user';not null" json:"role"` // user, admin
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// UserSegment buckets users for microcopy targeting and funnel breakdown.
type UserSegment string

const (
	SegmentNew          UserSegment = "new"
	SegmentJunior       UserSegment = "junior"
	SegmentProfessional UserSegment = "professional"
)

func (s UserSegment) Valid() bool {
	switch s {
	case SegmentNew, SegmentJunior, SegmentProfessional:
		return true
	}
	return false
}
