package services

import (
	"sync"
	"time"

	"github.com/vilanovax/karbarg/internal/config"
	"github.com/vilanovax/karbarg/internal/db"
	"github.com/vilanovax/karbarg/internal/logger"
	"github.com/vilanovax/karbarg/internal/models"

	"gorm.io/gorm/clause"
)

// QualityService recomputes AnswerQualityMetric rows asynchronously whenever an
// answer's reactions or accepted flag change.
type QualityService struct {
	cfg     config.Scoring
	queue   chan uint // answer ids waiting for recompute
	pending map[uint]bool
	mu      sync.Mutex
}

var (
	qualityService *QualityService
	qualityOnce    sync.Once
)

// InitQualityService builds the singleton with the given config and starts the
// background worker. Must run before GetQualityService.
func InitQualityService(cfg config.Scoring) *QualityService {
	qualityOnce.Do(func() {
		qualityService = &QualityService{
			cfg:     cfg,
			queue:   make(chan uint, 1000),
			pending: make(map[uint]bool),
		}
		go qualityService.worker()
	})
	return qualityService
}

// GetQualityService returns the singleton built by InitQualityService.
func GetQualityService() *QualityService {
	return qualityService
}

// ScheduleRecompute queues an answer for recompute, deduplicating answers
// already waiting.
func (s *QualityService) ScheduleRecompute(answerID uint) {
	s.mu.Lock()
	if s.pending[answerID] {
		s.mu.Unlock()
		return
	}
	s.pending[answerID] = true
	s.mu.Unlock()

	select {
	case s.queue <- answerID:
	default:
		// Queue full, drop; the next reaction reschedules it.
		s.mu.Lock()
		delete(s.pending, answerID)
		s.mu.Unlock()
		logger.L.Warnf("quality recompute queue full, skipping answer %d", answerID)
	}
}

func (s *QualityService) worker() {
	batch := make([]uint, 0, 50)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case answerID := <-s.queue:
			batch = append(batch, answerID)
			if len(batch) >= 50 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *QualityService) processBatch(answerIDs []uint) {
	for _, answerID := range answerIDs {
		if err := s.RecomputeAnswer(answerID); err != nil {
			logger.L.Errorf("quality recompute for answer %d failed: %v", answerID, err)
		}

		s.mu.Lock()
		delete(s.pending, answerID)
		s.mu.Unlock()
	}
}

// RecomputeAnswer recounts the answer's reactions, refreshes the denormalized
// counters, and upserts the quality metric. Also used synchronously on the
// accept path so the STAR label is visible on the next read.
func (s *QualityService) RecomputeAnswer(answerID uint) error {
	var answer models.Answer
	if err := db.DB.First(&answer, answerID).Error; err != nil {
		return err
	}

	// Recount from the reaction table rather than trusting the counters; the
	// counters are fixed up here if an increment was ever lost.
	var helpful int64
	db.DB.Model(&models.AnswerReaction{}).
		Where("answer_id = ? AND type = ?", answerID, models.ReactionHelpful).
		Count(&helpful)

	var expert int64
	db.DB.Model(&models.AnswerReaction{}).
		Where("answer_id = ? AND type = ?", answerID, models.ReactionExpert).
		Count(&expert)

	if int(helpful) != answer.HelpfulCount || int(expert) != answer.ExpertCount {
		db.DB.Model(&answer).Updates(map[string]interface{}{
			"helpful_count": int(helpful),
			"expert_count":  int(expert),
		})
	}

	aqs := CalculateAQS(int(helpful), int(expert), answer.Views, answer.IsAccepted, s.cfg)
	label := LabelFor(aqs, answer.IsAccepted, s.cfg)

	metric := models.AnswerQualityMetric{
		AnswerID:   answerID,
		AQS:        aqs,
		Label:      label,
		ComputedAt: time.Now(),
	}
	return db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "answer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"aqs", "label", "computed_at"}),
	}).Create(&metric).Error
}
