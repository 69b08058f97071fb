package entity

import "time"

type Event struct {
	Base

	Name        string
	Description string
	Location    string

	StartsAt time.Time
	EndsAt   time.Time

	// AttendancePoints is granted to each attendee when an admin confirms the
	// attendance.
	AttendancePoints uint64
}

type EventRegistration struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	EventID string `gorm:"primaryKey"`
	Event   Event  `gorm:"foreignKey:EventID"`

	RegisteredAt time.Time
	Attended     bool
	AttendedAt   time.Time
}
