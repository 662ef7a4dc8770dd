package services

import (
	"math"

	"github.com/vilanovax/karbarg/internal/config"
	"github.com/vilanovax/karbarg/internal/models"
)

// CalculateAQS derives the 0-100 Answer Quality Score from stored counters. Pure
// function: same inputs always give the same score. Monotonic non-decreasing in
// helpful and expert counts; acceptance adds a fixed bonus.
func CalculateAQS(helpful, expert, views int, accepted bool, cfg config.Scoring) int {
	if helpful < 0 {
		helpful = 0
	}
	if expert < 0 {
		expert = 0
	}
	if views < 0 {
		views = 0
	}

	// Views enter pre-smoothed: their magnitude dwarfs reactions otherwise.
	weightedSum := float64(helpful)*cfg.AQSWeightHelpful +
		float64(expert)*cfg.AQSWeightExpert +
		math.Log10(float64(views)+1)*cfg.AQSWeightView

	// log10(sum + 1) keeps the first reactions the most meaningful and makes
	// zero signals score exactly zero.
	score := math.Log10(weightedSum+1) * cfg.AQSScaleFactor

	aqs := int(math.Round(score))
	if accepted {
		aqs += cfg.AQSAcceptBonus
	}

	if aqs < 0 {
		aqs = 0
	}
	if aqs > 100 {
		aqs = 100
	}
	return aqs
}

// LabelFor maps an AQS and acceptance flag to the badge tier. Acceptance wins
// over any score; thresholds come from config and are read at call time.
func LabelFor(aqs int, accepted bool, cfg config.Scoring) models.QualityLabel {
	switch {
	case accepted:
		return models.LabelStar
	case aqs >= cfg.LabelHighThreshold:
		return models.LabelPro
	case aqs >= cfg.LabelMidThreshold:
		return models.LabelUseful
	default:
		return models.LabelNormal
	}
}
