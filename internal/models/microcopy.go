package models

import (
	"time"
)

// MicrocopyEventType distinguishes an impression from a click on the prompt.
type MicrocopyEventType string

const (
	MicrocopyShown   MicrocopyEventType = "shown"
	MicrocopyClicked MicrocopyEventType = "clicked"
)

func (t MicrocopyEventType) Valid() bool {
	return t == MicrocopyShown || t == MicrocopyClicked
}

// MicrocopyDefinition is a servable prompt variant. Toggling IsEnabled stops it
// from being served but never touches recorded events.
type MicrocopyDefinition struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Key       string      `gorm:"uniqueIndex;size:60;not null" json:"key"`
	Text      string      `gorm:"size:300;not null" json:"text"`
	Segment   UserSegment `gorm:"size:20" json:"segment"` // empty = all segments
	IsEnabled bool        `gorm:"default:true" json:"is_enabled"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// MicrocopyEvent records one shown/clicked occurrence for a user.
type MicrocopyEvent struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	UserID        uint               `gorm:"not null;index" json:"user_id"`
	MicrocopyID   uint               `gorm:"not null;index" json:"microcopy_id"`
	EventType     MicrocopyEventType `gorm:"size:10;not null;index" json:"event_type"`
	TriggerRuleID string             `gorm:"size:60" json:"trigger_rule_id"`
	Segment       UserSegment        `gorm:"size:20;index" json:"segment"`
	CreatedAt     time.Time          `gorm:"index" json:"created_at"`
}

// MicrocopyAction is the conversion that followed an event: what the user did
// after seeing the prompt, how long it took, and what it earned them.
type MicrocopyAction struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	EventID         uint      `gorm:"not null;index" json:"event_id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	MicrocopyID     uint      `gorm:"not null;index" json:"microcopy_id"`
	TimeToActionMS  int64     `gorm:"not null" json:"time_to_action_ms"`
	ReputationDelta int       `gorm:"default:0" json:"reputation_delta"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
}
