package config

import (
	"os"
	"strconv"
)

// Scoring carries every tunable knob of the quality and reputation pipeline.
// Loaded once in main and passed into the services, so tests can build their own
// instance instead of poking module state.
type Scoring struct {
	// AQS calculator
	AQSWeightHelpful float64
	AQSWeightExpert  float64
	AQSWeightView    float64
	AQSScaleFactor   float64
	AQSAcceptBonus   int

	// Quality labeler thresholds
	LabelHighThreshold int // >= is PRO
	LabelMidThreshold  int // >= is USEFUL

	// Reputation score weights
	WeightAnswer   int
	WeightAccepted int
	WeightHelpful  int
	WeightExpert   int
	WeightQuestion int

	// Expert tier lower bounds, score >= bound, checked top down
	TierContributor int
	TierSpecialist  int
	TierSenior      int
	TierExpert      int
	TierTopExpert   int

	// Microcopy CTR bands
	CTRWeakBelow float64
	CTRGoodBelow float64

	LeaderboardLimit int
}

// Default returns the observed production values.
func Default() Scoring {
	return Scoring{
		AQSWeightHelpful: 2.0,
		AQSWeightExpert:  5.0,
		AQSWeightView:    0.2,
		AQSScaleFactor:   45.0,
		AQSAcceptBonus:   25,

		LabelHighThreshold: 85,
		LabelMidThreshold:  40,

		WeightAnswer:   10,
		WeightAccepted: 50,
		WeightHelpful:  5,
		WeightExpert:   20,
		WeightQuestion: 2,

		TierContributor: 50,
		TierSpecialist:  200,
		TierSenior:      500,
		TierExpert:      1500,
		TierTopExpert:   4000,

		CTRWeakBelow: 0.15,
		CTRGoodBelow: 0.30,

		LeaderboardLimit: 50,
	}
}

// Load builds the scoring config from the environment on top of the defaults.
func Load() Scoring {
	cfg := Default()
	cfg.LabelHighThreshold = envInt("AQS_LABEL_HIGH", cfg.LabelHighThreshold)
	cfg.LabelMidThreshold = envInt("AQS_LABEL_MID", cfg.LabelMidThreshold)
	cfg.AQSAcceptBonus = envInt("AQS_ACCEPT_BONUS", cfg.AQSAcceptBonus)
	cfg.LeaderboardLimit = envInt("LEADERBOARD_LIMIT", cfg.LeaderboardLimit)
	return cfg
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
