package models

import (
	"time"
)

// Category is a fixed question topic (e.g. حسابداری مالی, مالیات). Seeded at startup.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"uniqueIndex;size:50;not null" json:"slug"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:300" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
