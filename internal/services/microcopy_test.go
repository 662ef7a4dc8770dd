package services

import (
	"testing"

	"github.com/vilanovax/karbarg/internal/config"
	"github.com/vilanovax/karbarg/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatioZeroGuard(t *testing.T) {
	assert.Equal(t, 0.0, Ratio(0, 0))
	assert.Equal(t, 0.0, Ratio(5, 0), "never a division fault")
	assert.Equal(t, 0.5, Ratio(1, 2))
}

func TestStatusBands(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, StatusWeak, StatusFor(0.0, cfg))
	assert.Equal(t, StatusWeak, StatusFor(0.149, cfg))
	assert.Equal(t, StatusNeedsImprovement, StatusFor(0.15, cfg))
	assert.Equal(t, StatusNeedsImprovement, StatusFor(0.299, cfg))
	assert.Equal(t, StatusExcellent, StatusFor(0.30, cfg))
	assert.Equal(t, StatusExcellent, StatusFor(1.0, cfg))
}

func shownEvent(id, userID, microcopyID uint, segment models.UserSegment) models.MicrocopyEvent {
	return models.MicrocopyEvent{
		ID: id, UserID: userID, MicrocopyID: microcopyID,
		EventType: models.MicrocopyShown, Segment: segment,
	}
}

func TestBuildFunnelReportFatigueRate(t *testing.T) {
	cfg := config.Default()

	// 10 distinct users shown, 3 of them acted, 7 did not -> 70%.
	var events []models.MicrocopyEvent
	for i := uint(1); i <= 10; i++ {
		events = append(events, shownEvent(i, i, 1, models.SegmentNew))
	}
	actions := []models.MicrocopyAction{
		{ID: 1, EventID: 1, UserID: 1, MicrocopyID: 1},
		{ID: 2, EventID: 2, UserID: 2, MicrocopyID: 1},
		{ID: 3, EventID: 3, UserID: 3, MicrocopyID: 1},
	}

	report := BuildFunnelReport(events, actions, map[uint]string{1: "complete-profile"}, cfg)
	assert.InDelta(t, 0.7, report.KPIs.FatigueRate, 1e-9)
}

func TestBuildFunnelReportEmpty(t *testing.T) {
	cfg := config.Default()

	report := BuildFunnelReport(nil, nil, nil, cfg)
	assert.Equal(t, 0.0, report.KPIs.CTR)
	assert.Equal(t, 0.0, report.KPIs.Conversion)
	assert.Equal(t, 0.0, report.KPIs.FatigueRate)
	assert.Empty(t, report.MicrocopyTable)
}

func TestBuildFunnelReportRatesInRange(t *testing.T) {
	cfg := config.Default()

	events := []models.MicrocopyEvent{
		shownEvent(1, 1, 1, models.SegmentNew),
		shownEvent(2, 2, 1, models.SegmentNew),
		{ID: 3, UserID: 1, MicrocopyID: 1, EventType: models.MicrocopyClicked, Segment: models.SegmentNew},
	}
	actions := []models.MicrocopyAction{
		{ID: 1, EventID: 1, UserID: 1, MicrocopyID: 1, TimeToActionMS: 4000, ReputationDelta: 5},
	}

	report := BuildFunnelReport(events, actions, map[uint]string{1: "nudge"}, cfg)

	assert.GreaterOrEqual(t, report.KPIs.CTR, 0.0)
	assert.LessOrEqual(t, report.KPIs.CTR, 1.0)
	assert.GreaterOrEqual(t, report.KPIs.Conversion, 0.0)
	assert.LessOrEqual(t, report.KPIs.Conversion, 1.0)

	assert.Equal(t, 2, report.Funnel.Shown)
	assert.Equal(t, 1, report.Funnel.Clicked)
	assert.Equal(t, 1, report.Funnel.Actions)
	assert.InDelta(t, 0.5, report.KPIs.CTR, 1e-9)
	assert.InDelta(t, 0.5, report.KPIs.Conversion, 1e-9)
	assert.InDelta(t, 4000, report.KPIs.AvgTimeToActionMS, 1e-9)
	assert.InDelta(t, 5, report.KPIs.AvgReputationLift, 1e-9)
}

func TestBuildFunnelReportPerVariantTable(t *testing.T) {
	cfg := config.Default()

	events := []models.MicrocopyEvent{
		// Variant 1: 4 shown, 2 clicked -> CTR 0.5, excellent.
		shownEvent(1, 1, 1, models.SegmentNew),
		shownEvent(2, 2, 1, models.SegmentNew),
		shownEvent(3, 3, 1, models.SegmentNew),
		shownEvent(4, 4, 1, models.SegmentNew),
		{ID: 5, UserID: 1, MicrocopyID: 1, EventType: models.MicrocopyClicked, Segment: models.SegmentNew},
		{ID: 6, UserID: 2, MicrocopyID: 1, EventType: models.MicrocopyClicked, Segment: models.SegmentNew},
		// Variant 2: 10 shown, 1 clicked -> CTR 0.1, weak.
		shownEvent(7, 5, 2, models.SegmentJunior),
		shownEvent(8, 6, 2, models.SegmentJunior),
		shownEvent(9, 7, 2, models.SegmentJunior),
		shownEvent(10, 8, 2, models.SegmentJunior),
		shownEvent(11, 9, 2, models.SegmentJunior),
		shownEvent(12, 10, 2, models.SegmentJunior),
		shownEvent(13, 11, 2, models.SegmentJunior),
		shownEvent(14, 12, 2, models.SegmentJunior),
		shownEvent(15, 13, 2, models.SegmentJunior),
		shownEvent(16, 14, 2, models.SegmentJunior),
		{ID: 17, UserID: 5, MicrocopyID: 2, EventType: models.MicrocopyClicked, Segment: models.SegmentJunior},
	}

	report := BuildFunnelReport(events, nil, map[uint]string{1: "a", 2: "b"}, cfg)
	require.Len(t, report.MicrocopyTable, 2)

	rows := make(map[uint]MicrocopyRow)
	for _, row := range report.MicrocopyTable {
		rows[row.MicrocopyID] = row
	}

	assert.InDelta(t, 0.5, rows[1].CTR, 1e-9)
	assert.Equal(t, StatusExcellent, rows[1].Status)
	assert.InDelta(t, 0.1, rows[2].CTR, 1e-9)
	assert.Equal(t, StatusWeak, rows[2].Status)
}

func TestBuildFunnelReportSegmentAnalysis(t *testing.T) {
	cfg := config.Default()

	events := []models.MicrocopyEvent{
		shownEvent(1, 1, 1, models.SegmentNew),
		shownEvent(2, 2, 1, models.SegmentNew),
		{ID: 3, UserID: 1, MicrocopyID: 1, EventType: models.MicrocopyClicked, Segment: models.SegmentNew},
		shownEvent(4, 3, 1, models.SegmentProfessional),
	}
	actions := []models.MicrocopyAction{
		{ID: 1, EventID: 4, UserID: 3, MicrocopyID: 1},
	}

	report := BuildFunnelReport(events, actions, map[uint]string{1: "a"}, cfg)

	newSeg := report.SegmentAnalysis[models.SegmentNew]
	assert.Equal(t, 2, newSeg.Shown)
	assert.InDelta(t, 0.5, newSeg.CTR, 1e-9)
	assert.Equal(t, 0, newSeg.Actions)

	proSeg := report.SegmentAnalysis[models.SegmentProfessional]
	assert.Equal(t, 1, proSeg.Shown)
	assert.Equal(t, 0.0, proSeg.CTR)
	assert.Equal(t, 1, proSeg.Actions)
	assert.InDelta(t, 1.0, proSeg.Conversion, 1e-9)
}

func TestRecordMicrocopyEventRejectsBadPayload(t *testing.T) {
	_, err := RecordMicrocopyEvent(1, "empty_state_question", "hover", "", models.SegmentNew)
	require.ErrorIs(t, err, ErrMicrocopyInvalid)

	_, err = RecordMicrocopyEvent(1, "empty_state_question", models.MicrocopyShown, "", "guest")
	require.ErrorIs(t, err, ErrMicrocopyInvalid)
}
