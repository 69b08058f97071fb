package entity

import "gorm.io/gorm"

func MigrateTable(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&UserStats{},
		&PointTransaction{},
		&Achievement{},
		&UserAchievement{},
		&Reward{},
		&Redemption{},
		&Event{},
		&EventRegistration{},
		&Migration{},
	)
}
