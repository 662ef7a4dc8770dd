package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/vilanovax/karbarg/internal/config"
	"github.com/vilanovax/karbarg/internal/db"
	"github.com/vilanovax/karbarg/internal/models"

	"gorm.io/gorm"
)

// Microcopy status bands for dashboard coloring.
const (
	StatusWeak             = "weak"
	StatusNeedsImprovement = "needs_improvement"
	StatusExcellent        = "excellent"
)

var (
	ErrMicrocopyDisabled = errors.New("microcopy variant is disabled")
	ErrMicrocopyInvalid  = errors.New("invalid microcopy event payload")
	ErrEventNotFound     = errors.New("microcopy event not found")
)

// FunnelKPIs are the headline numbers of the admin dashboard.
type FunnelKPIs struct {
	CTR               float64 `json:"ctr"`
	Conversion        float64 `json:"conversion"`
	AvgTimeToActionMS float64 `json:"avgTimeToAction"`
	AvgReputationLift float64 `json:"avgReputationLift"`
	FatigueRate       float64 `json:"fatigueRate"`
}

// MicrocopyRow is one variant's line in the dashboard table.
type MicrocopyRow struct {
	MicrocopyID uint    `json:"microcopyId"`
	Key         string  `json:"key"`
	Shown       int     `json:"shown"`
	Clicked     int     `json:"clicked"`
	Actions     int     `json:"actions"`
	CTR         float64 `json:"ctr"`
	Conversion  float64 `json:"conversion"`
	Status      string  `json:"status"`
}

// SegmentStats repeats the funnel math within one user segment.
type SegmentStats struct {
	Shown      int     `json:"shown"`
	Clicked    int     `json:"clicked"`
	Actions    int     `json:"actions"`
	CTR        float64 `json:"ctr"`
	Conversion float64 `json:"conversion"`
}

// FunnelCounts is the overall shown -> clicked -> action funnel.
type FunnelCounts struct {
	Shown   int `json:"shown"`
	Clicked int `json:"clicked"`
	Actions int `json:"actions"`
}

// FunnelReport is the full admin stats payload.
type FunnelReport struct {
	KPIs            FunnelKPIs                          `json:"kpis"`
	MicrocopyTable  []MicrocopyRow                      `json:"microcopyTable"`
	SegmentAnalysis map[models.UserSegment]SegmentStats `json:"segmentAnalysis"`
	Funnel          FunnelCounts                        `json:"funnel"`
}

// Ratio divides with a zero guard: anything over zero impressions is 0, never a
// division fault.
func Ratio(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}

// StatusFor classifies a CTR into the dashboard bands.
func StatusFor(ctr float64, cfg config.Scoring) string {
	switch {
	case ctr < cfg.CTRWeakBelow:
		return StatusWeak
	case ctr < cfg.CTRGoodBelow:
		return StatusNeedsImprovement
	default:
		return StatusExcellent
	}
}

// BuildFunnelReport computes every dashboard metric from raw events and actions.
// Pure function of its inputs; the fatigue rate is a per-user existential check,
// not a per-event ratio.
func BuildFunnelReport(events []models.MicrocopyEvent, actions []models.MicrocopyAction, keys map[uint]string, cfg config.Scoring) *FunnelReport {
	report := &FunnelReport{
		MicrocopyTable:  []MicrocopyRow{},
		SegmentAnalysis: make(map[models.UserSegment]SegmentStats),
	}

	rows := make(map[uint]*MicrocopyRow)
	segments := make(map[models.UserSegment]*SegmentStats)
	shownUsers := make(map[uint]bool)
	actedUsers := make(map[uint]bool)

	rowFor := func(microcopyID uint) *MicrocopyRow {
		row, ok := rows[microcopyID]
		if !ok {
			row = &MicrocopyRow{MicrocopyID: microcopyID, Key: keys[microcopyID]}
			rows[microcopyID] = row
		}
		return row
	}
	segFor := func(segment models.UserSegment) *SegmentStats {
		seg, ok := segments[segment]
		if !ok {
			seg = &SegmentStats{}
			segments[segment] = seg
		}
		return seg
	}

	for _, ev := range events {
		row := rowFor(ev.MicrocopyID)
		seg := segFor(ev.Segment)
		switch ev.EventType {
		case models.MicrocopyShown:
			row.Shown++
			seg.Shown++
			report.Funnel.Shown++
			shownUsers[ev.UserID] = true
		case models.MicrocopyClicked:
			row.Clicked++
			seg.Clicked++
			report.Funnel.Clicked++
		}
	}

	var totalTimeMS int64
	var totalLift int
	eventSegment := make(map[uint]models.UserSegment, len(events))
	for _, ev := range events {
		eventSegment[ev.ID] = ev.Segment
	}
	for _, act := range actions {
		row := rowFor(act.MicrocopyID)
		row.Actions++
		report.Funnel.Actions++
		actedUsers[act.UserID] = true
		totalTimeMS += act.TimeToActionMS
		totalLift += act.ReputationDelta
		if segment, ok := eventSegment[act.EventID]; ok {
			segFor(segment).Actions++
		}
	}

	for _, row := range rows {
		row.CTR = Ratio(row.Clicked, row.Shown)
		row.Conversion = Ratio(row.Actions, row.Shown)
		row.Status = StatusFor(row.CTR, cfg)
		report.MicrocopyTable = append(report.MicrocopyTable, *row)
	}
	for segment, seg := range segments {
		seg.CTR = Ratio(seg.Clicked, seg.Shown)
		seg.Conversion = Ratio(seg.Actions, seg.Shown)
		report.SegmentAnalysis[segment] = *seg
	}

	fatigued := 0
	for userID := range shownUsers {
		if !actedUsers[userID] {
			fatigued++
		}
	}

	report.KPIs = FunnelKPIs{
		CTR:         Ratio(report.Funnel.Clicked, report.Funnel.Shown),
		Conversion:  Ratio(report.Funnel.Actions, report.Funnel.Shown),
		FatigueRate: Ratio(fatigued, len(shownUsers)),
	}
	if len(actions) > 0 {
		report.KPIs.AvgTimeToActionMS = float64(totalTimeMS) / float64(len(actions))
		report.KPIs.AvgReputationLift = float64(totalLift) / float64(len(actions))
	}

	return report
}

// RecordMicrocopyEvent stores one shown/clicked event against an enabled
// definition and returns the event id for a later action link.
func RecordMicrocopyEvent(userID uint, microcopyKey string, eventType models.MicrocopyEventType, triggerRuleID string, segment models.UserSegment) (*models.MicrocopyEvent, error) {
	if !eventType.Valid() {
		return nil, fmt.Errorf("%w: event type %q", ErrMicrocopyInvalid, eventType)
	}
	if !segment.Valid() {
		return nil, fmt.Errorf("%w: user segment %q", ErrMicrocopyInvalid, segment)
	}

	var def models.MicrocopyDefinition
	if err := db.DB.Where("key = ?", microcopyKey).First(&def).Error; err != nil {
		return nil, err
	}
	if !def.IsEnabled {
		return nil, ErrMicrocopyDisabled
	}

	event := models.MicrocopyEvent{
		UserID:        userID,
		MicrocopyID:   def.ID,
		EventType:     eventType,
		TriggerRuleID: triggerRuleID,
		Segment:       segment,
	}
	if err := db.DB.Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// RecordMicrocopyAction links a conversion to an earlier event. Time-to-action
// is measured from the event's timestamp.
func RecordMicrocopyAction(eventID, userID uint, reputationDelta int) (*models.MicrocopyAction, error) {
	var event models.MicrocopyEvent
	if err := db.DB.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event.UserID != userID {
		return nil, ErrEventNotFound
	}

	action := models.MicrocopyAction{
		EventID:         event.ID,
		UserID:          userID,
		MicrocopyID:     event.MicrocopyID,
		TimeToActionMS:  time.Since(event.CreatedAt).Milliseconds(),
		ReputationDelta: reputationDelta,
	}
	if err := db.DB.Create(&action).Error; err != nil {
		return nil, err
	}

	if reputationDelta != 0 {
		AddReputationAsync(userID, reputationDelta, ActionMicrocopyBonus)
	}
	return &action, nil
}

// MicrocopyStats fetches the events/actions of the last N days and builds the
// dashboard report.
func MicrocopyStats(days int, cfg config.Scoring) (*FunnelReport, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	var events []models.MicrocopyEvent
	if err := db.DB.Where("created_at >= ?", since).Find(&events).Error; err != nil {
		return nil, err
	}

	var actions []models.MicrocopyAction
	if err := db.DB.Where("created_at >= ?", since).Find(&actions).Error; err != nil {
		return nil, err
	}

	var defs []models.MicrocopyDefinition
	if err := db.DB.Find(&defs).Error; err != nil {
		return nil, err
	}
	keys := make(map[uint]string, len(defs))
	for _, def := range defs {
		keys[def.ID] = def.Key
	}

	return BuildFunnelReport(events, actions, keys, cfg), nil
}

// ToggleMicrocopy flips whether a variant is served. Historical events stay
// untouched.
func ToggleMicrocopy(id uint, enabled bool) error {
	result := db.DB.Model(&models.MicrocopyDefinition{}).
		Where("id = ?", id).
		Update("is_enabled", enabled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ActiveMicrocopy lists the enabled definitions servable to a segment.
func ActiveMicrocopy(segment models.UserSegment) ([]models.MicrocopyDefinition, error) {
	var defs []models.MicrocopyDefinition
	query := db.DB.Where("is_enabled = ?", true)
	if segment != "" {
		query = query.Where("segment = ? OR segment = ''", segment)
	}
	err := query.Order("id ASC").Find(&defs).Error
	return defs, err
}
