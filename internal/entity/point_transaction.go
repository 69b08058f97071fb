package entity

import "github.com/bskmt/backend/pkg/enum"

type PointReason string

var (
	CommentReason           = enum.New(PointReason("comment"))
	PostReason              = enum.New(PointReason("post"))
	JoinGroupReason         = enum.New(PointReason("join_group"))
	EventAttendanceReason   = enum.New(PointReason("event_attendance"))
	EventOrganizationReason = enum.New(PointReason("event_organization"))
	ReferralReason          = enum.New(PointReason("referral"))
	AchievementBonusReason  = enum.New(PointReason("achievement_bonus"))
	RewardRedemptionReason  = enum.New(PointReason("reward_redemption"))
	RedemptionRefundReason  = enum.New(PointReason("redemption_refund"))
	AdminBonusReason        = enum.New(PointReason("admin_bonus"))
	AdminPenaltyReason      = enum.New(PointReason("admin_penalty"))
	AdminAdjustmentReason   = enum.New(PointReason("admin_adjustment"))
	RevocationReason        = enum.New(PointReason("revocation"))
)

// PointTransaction is an append-only ledger row. Amount is positive for a
// grant and negative for a deduction. A revoked grant stays in the table with
// Active set to false, next to a reversing row referencing it.
type PointTransaction struct {
	Base

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	Amount      int64
	Reason      PointReason `gorm:"index:idx_point_tx_reference"`
	ReferenceID string      `gorm:"index:idx_point_tx_reference"`
	Description string
	Active      bool `gorm:"default:true"`
}
