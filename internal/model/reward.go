package model

type Reward struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Cost        uint64         `json:"cost"`
	Stock       *int64         `json:"stock,omitempty"`
	Active      bool           `json:"active"`
}

type Redemption struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	RewardID  string `json:"reward_id"`
	Cost      uint64 `json:"cost"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type GetRewardsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetRewardsResponse struct {
	Rewards []Reward `json:"rewards"`
}

type CreateRewardRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata"`
	Cost        uint64         `json:"cost"`

	// An omitted stock creates an unlimited reward.
	Stock *int64 `json:"stock"`
}

type CreateRewardResponse struct {
	ID string `json:"id"`
}

type RedeemRewardRequest struct {
	RewardID string `json:"reward_id"`
}

type RedeemRewardResponse struct {
	Redemption Redemption `json:"redemption"`
}

type CancelRedemptionRequest struct {
	RedemptionID string `json:"redemption_id"`
}

type CancelRedemptionResponse struct{}

type FulfillRedemptionRequest struct {
	RedemptionID string `json:"redemption_id"`
}

type FulfillRedemptionResponse struct{}

type GetMyRedemptionsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetMyRedemptionsResponse struct {
	Redemptions []Redemption `json:"redemptions"`
}
