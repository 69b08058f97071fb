package entity

import "github.com/bskmt/backend/pkg/enum"

type Reward struct {
	Base

	Name        string
	Description string
	Metadata    Map

	Cost uint64

	// A nil stock means the reward never runs out.
	Stock *int64

	Active bool `gorm:"default:true"`
}

type RedemptionStatus string

var (
	RedemptionPending   = enum.New(RedemptionStatus("pending"))
	RedemptionFulfilled = enum.New(RedemptionStatus("fulfilled"))
	RedemptionCancelled = enum.New(RedemptionStatus("cancelled"))
)

// Redemption keeps the cost at redeem time, a later reward price change does
// not affect the refund of a cancellation.
type Redemption struct {
	Base

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	RewardID string
	Reward   Reward `gorm:"foreignKey:RewardID"`

	Cost   uint64
	Status RedemptionStatus
}
