package entity

import "time"

// UserStats is the single-row per user aggregate of the point ledger. Points
// is unsigned, a deduction can never push it below zero.
type UserStats struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	Points uint64
	Level  string

	CreatedAt time.Time
	UpdatedAt time.Time
}
