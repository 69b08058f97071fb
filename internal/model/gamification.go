package model

type UserStats struct {
	UserID       string `json:"user_id"`
	Points       uint64 `json:"points"`
	Level        string `json:"level"`
	NextLevel    string `json:"next_level,omitempty"`
	PointsToNext uint64 `json:"points_to_next,omitempty"`
	Rank         uint64 `json:"rank,omitempty"`
}

type PointTransaction struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Amount      int64  `json:"amount"`
	Reason      string `json:"reason"`
	ReferenceID string `json:"reference_id"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"created_at"`
}

type GrantPointsRequest struct {
	// Either the id or the email identifies the user, the id wins when both
	// are present.
	UserID    string `json:"user_id"`
	UserEmail string `json:"user_email"`

	Amount      uint64 `json:"amount"`
	Reason      string `json:"reason"`
	ReferenceID string `json:"reference_id"`
	Description string `json:"description"`
}

type GrantPointsResponse struct {
	Transaction PointTransaction `json:"transaction"`
}

type RevokePointsRequest struct {
	TransactionID string `json:"transaction_id"`
}

type RevokePointsResponse struct{}

type GetPointHistoryRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetPointHistoryResponse struct {
	Transactions []PointTransaction `json:"transactions"`
}

type LeaderboardEntry struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Points uint64 `json:"points"`
	Level  string `json:"level"`
	Rank   int    `json:"rank"`
}

type GetLeaderboardRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetLeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

type GetRankRequest struct {
	UserID string `json:"user_id"`
}

type GetRankResponse struct {
	Rank uint64 `json:"rank"`
}

type Achievement struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	Icon           string `json:"icon"`
	BonusPoints    uint64 `json:"bonus_points"`
	Condition      string `json:"condition"`
	Operator       string `json:"operator"`
	ConditionValue int64  `json:"condition_value"`

	Progress    *AchievementProgress `json:"progress,omitempty"`
	UnlockedAt  string               `json:"unlocked_at,omitempty"`
	WasNotified bool                 `json:"was_notified,omitempty"`
}

type AchievementProgress struct {
	Current int64 `json:"current"`
	Total   int64 `json:"total"`
}

type GetAchievementsRequest struct{}

type GetAchievementsResponse struct {
	Achievements []Achievement `json:"achievements"`
}

type GetMyAchievementsRequest struct{}

type GetMyAchievementsResponse struct {
	Achievements []Achievement `json:"achievements"`
}

type VerifyAchievementsRequest struct{}

type VerifyAchievementsResponse struct {
	Unlocked []Achievement `json:"unlocked"`
}

type CreateAchievementRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	Icon           string `json:"icon"`
	BonusPoints    uint64 `json:"bonus_points"`
	Condition      string `json:"condition"`
	Operator       string `json:"operator"`
	ConditionValue int64  `json:"condition_value"`
}

type CreateAchievementResponse struct {
	ID string `json:"id"`
}
