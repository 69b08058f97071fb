package entity

import "time"

// Migration records every applied schema or data migration by version.
type Migration struct {
	Version   string `gorm:"primaryKey"`
	AppliedAt time.Time
}
