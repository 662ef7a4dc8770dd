package models

import (
	"strconv"
	"strings"
	"time"
)

// TaskStatus is the four-state lifecycle of a career task. Transitions only move
// forward: locked -> pending -> in_progress -> completed.
type TaskStatus string

const (
	TaskLocked     TaskStatus = "locked"
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// TaskKind is the closed set of task flavors in a level.
type TaskKind string

const (
	TaskStudy    TaskKind = "study"
	TaskPractice TaskKind = "practice"
	TaskQuiz     TaskKind = "quiz"
	TaskProject  TaskKind = "project"
)

func (k TaskKind) Valid() bool {
	switch k {
	case TaskStudy, TaskPractice, TaskQuiz, TaskProject:
		return true
	}
	return false
}

// CareerLevel is static track content, seeded at startup. Levels with
// Position == n+1 unlock when a level at Position n is completed.
type CareerLevel struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Slug         string    `gorm:"uniqueIndex;size:50;not null" json:"slug"`
	Title        string    `gorm:"size:120;not null" json:"title"`
	Position     int       `gorm:"not null;index" json:"position"`
	RewardPoints int       `gorm:"not null;default:0" json:"reward_points"`
	RewardBadge  string    `gorm:"size:60" json:"reward_badge"` // empty = no badge
	CreatedAt    time.Time `json:"created_at"`

	Tasks []LevelTask `gorm:"constraint:OnDelete:CASCADE;" json:"tasks"`
}

// LevelTask is one step inside a level; Position orders the prerequisite chain.
type LevelTask struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LevelID   uint      `gorm:"not null;index" json:"level_id"`
	Position  int       `gorm:"not null" json:"position"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Kind      TaskKind  `gorm:"size:20;not null;default:'study'" json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// LevelProgress is a user's append-only progress in one level. CompletedIDs is a
// comma separated list of task ids; there is no transition back out of completed.
type LevelProgress struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;uniqueIndex:idx_user_level" json:"user_id"`
	LevelID       uint       `gorm:"not null;uniqueIndex:idx_user_level" json:"level_id"`
	CompletedIDs  string     `gorm:"type:text" json:"completed_ids"`
	CurrentTaskID *uint      `json:"current_task_id"` // at most one in-progress task
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CompletedSet parses CompletedIDs into a lookup set.
func (p *LevelProgress) CompletedSet() map[uint]bool {
	set := make(map[uint]bool)
	if p == nil || p.CompletedIDs == "" {
		return set
	}
	for _, part := range strings.Split(p.CompletedIDs, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		set[uint(id)] = true
	}
	return set
}

// MarkCompleted appends a task id to CompletedIDs if not already present.
func (p *LevelProgress) MarkCompleted(taskID uint) {
	if p.CompletedSet()[taskID] {
		return
	}
	id := strconv.FormatUint(uint64(taskID), 10)
	if p.CompletedIDs == "" {
		p.CompletedIDs = id
		return
	}
	p.CompletedIDs += "," + id
}
