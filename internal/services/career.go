package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/vilanovax/karbarg/internal/db"
	"github.com/vilanovax/karbarg/internal/models"

	"gorm.io/gorm"
)

var (
	ErrTaskLocked       = errors.New("task is locked by an earlier incomplete task")
	ErrTaskDone         = errors.New("task is already completed")
	ErrTaskNotStartable = errors.New("task is not in a startable state")
)

// TaskState pairs a task with its derived status for one user.
type TaskState struct {
	models.LevelTask
	Status models.TaskStatus `json:"status"`
}

// LevelReward is what completing the final task of a level yields.
type LevelReward struct {
	Points           int    `json:"points"`
	Badge            string `json:"badge,omitempty"`
	UnlockedLevelIDs []uint `json:"unlocked_level_ids"`
}

// DeriveTaskStatuses computes each task's status from its position, the
// completed set, and the single in-progress marker. Pure function; tasks must be
// ordered by position. A task is locked iff any earlier task is incomplete, so
// there is no skipping ahead.
func DeriveTaskStatuses(tasks []models.LevelTask, completed map[uint]bool, currentID *uint) []TaskState {
	states := make([]TaskState, len(tasks))
	blocked := false
	for i, task := range tasks {
		state := TaskState{LevelTask: task}
		switch {
		case completed[task.ID]:
			state.Status = models.TaskCompleted
		case blocked:
			state.Status = models.TaskLocked
		case currentID != nil && *currentID == task.ID:
			state.Status = models.TaskInProgress
		default:
			state.Status = models.TaskPending
		}
		if !completed[task.ID] {
			blocked = true
		}
		states[i] = state
	}
	return states
}

func loadLevel(levelID uint) (*models.CareerLevel, error) {
	var level models.CareerLevel
	err := db.DB.Preload("Tasks", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	}).First(&level, levelID).Error
	if err != nil {
		return nil, err
	}
	sort.Slice(level.Tasks, func(i, j int) bool {
		return level.Tasks[i].Position < level.Tasks[j].Position
	})
	return &level, nil
}

func loadProgress(userID, levelID uint) (*models.LevelProgress, error) {
	var progress models.LevelProgress
	err := db.DB.Where("user_id = ? AND level_id = ?", userID, levelID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = models.LevelProgress{UserID: userID, LevelID: levelID}
		return &progress, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// LevelProgressView is a level plus the caller's derived task states.
type LevelProgressView struct {
	Level       models.CareerLevel `json:"level"`
	Tasks       []TaskState        `json:"tasks"`
	CompletedAt *time.Time         `json:"completed_at"`
}

// GetLevelProgress derives the caller's task statuses for one level.
func GetLevelProgress(userID, levelID uint) (*LevelProgressView, error) {
	level, err := loadLevel(levelID)
	if err != nil {
		return nil, err
	}
	progress, err := loadProgress(userID, levelID)
	if err != nil {
		return nil, err
	}

	view := &LevelProgressView{
		Level:       *level,
		Tasks:       DeriveTaskStatuses(level.Tasks, progress.CompletedSet(), progress.CurrentTaskID),
		CompletedAt: progress.CompletedAt,
	}
	view.Level.Tasks = nil
	return view, nil
}

// StartTask marks a pending task as the level's single in-progress task.
func StartTask(userID, levelID, taskID uint) error {
	level, err := loadLevel(levelID)
	if err != nil {
		return err
	}
	progress, err := loadProgress(userID, levelID)
	if err != nil {
		return err
	}

	states := DeriveTaskStatuses(level.Tasks, progress.CompletedSet(), progress.CurrentTaskID)
	state, err := findState(states, taskID)
	if err != nil {
		return err
	}
	switch state.Status {
	case models.TaskPending:
	case models.TaskInProgress:
		return nil // already started
	default:
		return ErrTaskNotStartable
	}

	progress.CurrentTaskID = &taskID
	return db.DB.Save(progress).Error
}

// CompleteTask moves a pending or in-progress task to completed. Completing the
// final task grants the level reward and stamps the completion time. Completed
// tasks never revert.
func CompleteTask(userID, levelID, taskID uint) (*LevelReward, error) {
	level, err := loadLevel(levelID)
	if err != nil {
		return nil, err
	}
	progress, err := loadProgress(userID, levelID)
	if err != nil {
		return nil, err
	}

	states := DeriveTaskStatuses(level.Tasks, progress.CompletedSet(), progress.CurrentTaskID)
	state, err := findState(states, taskID)
	if err != nil {
		return nil, err
	}
	switch state.Status {
	case models.TaskCompleted:
		return nil, ErrTaskDone
	case models.TaskLocked:
		return nil, ErrTaskLocked
	}

	progress.MarkCompleted(taskID)
	if progress.CurrentTaskID != nil && *progress.CurrentTaskID == taskID {
		progress.CurrentTaskID = nil
	}

	completedSet := progress.CompletedSet()
	levelDone := true
	for _, task := range level.Tasks {
		if !completedSet[task.ID] {
			levelDone = false
			break
		}
	}

	var reward *LevelReward
	if levelDone && progress.CompletedAt == nil {
		now := time.Now()
		progress.CompletedAt = &now

		unlocked, err := unlockedLevelIDs(level.Position)
		if err != nil {
			return nil, err
		}
		reward = &LevelReward{
			Points:           level.RewardPoints,
			Badge:            level.RewardBadge,
			UnlockedLevelIDs: unlocked,
		}
	}

	if err := db.DB.Save(progress).Error; err != nil {
		return nil, err
	}

	if reward != nil && reward.Points > 0 {
		if err := AddReputation(userID, reward.Points, ActionLevelCompleted); err != nil {
			return nil, err
		}
	}
	return reward, nil
}

func findState(states []TaskState, taskID uint) (*TaskState, error) {
	for i := range states {
		if states[i].ID == taskID {
			return &states[i], nil
		}
	}
	return nil, fmt.Errorf("task %d not in level: %w", taskID, gorm.ErrRecordNotFound)
}

func unlockedLevelIDs(position int) ([]uint, error) {
	var next []models.CareerLevel
	if err := db.DB.Where("position = ?", position+1).Find(&next).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(next))
	for _, level := range next {
		ids = append(ids, level.ID)
	}
	return ids, nil
}
