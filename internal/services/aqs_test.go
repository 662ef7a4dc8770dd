package services

import (
	"testing"

	"github.com/vilanovax/karbarg/internal/config"
	"github.com/vilanovax/karbarg/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCalculateAQSZeroSignals(t *testing.T) {
	cfg := config.Default()

	aqs := CalculateAQS(0, 0, 0, false, cfg)
	assert.Equal(t, 0, aqs, "no reactions and not accepted must score the floor")
	assert.Equal(t, models.LabelNormal, LabelFor(aqs, false, cfg))
}

func TestCalculateAQSMonotonicInHelpful(t *testing.T) {
	cfg := config.Default()

	prev := -1
	for helpful := 0; helpful <= 50; helpful++ {
		aqs := CalculateAQS(helpful, 2, 100, false, cfg)
		assert.GreaterOrEqual(t, aqs, prev, "helpful=%d", helpful)
		prev = aqs
	}
}

func TestCalculateAQSMonotonicInExpert(t *testing.T) {
	cfg := config.Default()

	prev := -1
	for expert := 0; expert <= 30; expert++ {
		aqs := CalculateAQS(3, expert, 50, false, cfg)
		assert.GreaterOrEqual(t, aqs, prev, "expert=%d", expert)
		prev = aqs
	}
}

func TestCalculateAQSBounds(t *testing.T) {
	cfg := config.Default()

	// Heavy engagement must clamp at 100, never overflow.
	aqs := CalculateAQS(100000, 100000, 1000000, true, cfg)
	assert.Equal(t, 100, aqs)

	// Negative inputs are treated as zero, not a fault.
	assert.Equal(t, 0, CalculateAQS(-5, -1, -10, false, cfg))
}

func TestCalculateAQSAcceptBonus(t *testing.T) {
	cfg := config.Default()

	plain := CalculateAQS(4, 1, 20, false, cfg)
	accepted := CalculateAQS(4, 1, 20, true, cfg)
	assert.Equal(t, plain+cfg.AQSAcceptBonus, accepted)
}

func TestCalculateAQSIdempotent(t *testing.T) {
	cfg := config.Default()

	first := CalculateAQS(7, 2, 340, true, cfg)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, CalculateAQS(7, 2, 340, true, cfg))
	}
}

func TestLabelForStarPrecedence(t *testing.T) {
	cfg := config.Default()

	// Accepted answers are STAR regardless of score.
	for aqs := 0; aqs <= 100; aqs++ {
		assert.Equal(t, models.LabelStar, LabelFor(aqs, true, cfg), "aqs=%d", aqs)
	}
}

func TestLabelForThresholds(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		aqs  int
		want models.QualityLabel
	}{
		{0, models.LabelNormal},
		{39, models.LabelNormal},
		{40, models.LabelUseful},
		{84, models.LabelUseful},
		{85, models.LabelPro},
		{100, models.LabelPro},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LabelFor(tt.aqs, false, cfg), "aqs=%d", tt.aqs)
	}
}

func TestLabelForConfiguredThresholds(t *testing.T) {
	// Thresholds are configuration, changing them changes the next read.
	cfg := config.Default()
	cfg.LabelHighThreshold = 60
	cfg.LabelMidThreshold = 20

	assert.Equal(t, models.LabelUseful, LabelFor(20, false, cfg))
	assert.Equal(t, models.LabelPro, LabelFor(60, false, cfg))
	assert.Equal(t, models.LabelNormal, LabelFor(19, false, cfg))
}
