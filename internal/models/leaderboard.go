package models

// ExpertTier is derived from the leaderboard score via fixed breakpoints.
type ExpertTier string

const (
	TierNewcomer    ExpertTier = "newcomer"
	TierContributor ExpertTier = "contributor"
	TierSpecialist  ExpertTier = "specialist"
	TierSenior      ExpertTier = "senior"
	TierExpert      ExpertTier = "expert"
	TierTopExpert   ExpertTier = "top_expert"
)

// UserStats is one user's aggregate within a leaderboard window. Computed per
// query, never persisted.
type UserStats struct {
	UserID           uint   `json:"user_id"`
	Username         string `json:"username"`
	Headline         string `json:"headline"`
	TotalAnswers     int    `json:"total_answers"`
	AcceptedAnswers  int    `json:"accepted_answers"`
	HelpfulReactions int    `json:"helpful_reactions"`
	ExpertReactions  int    `json:"expert_reactions"`
	TotalQuestions   int    `json:"total_questions"`
	Score            int    `json:"score"`
}

// LeaderboardEntry is a ranked row as served to clients.
type LeaderboardEntry struct {
	Rank     int        `json:"rank"`
	UserID   uint       `json:"userId"`
	Username string     `json:"username"`
	Tier     ExpertTier `json:"tier"`
	Stats    UserStats  `json:"stats"`
}
