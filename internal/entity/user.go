package entity

type User struct {
	Base
	Email          string `gorm:"unique"`
	Name           string
	HashedPassword string
	Role           string `gorm:"default:USER"`
}

const (
	SuperAdminRole = "SUPER_ADMIN"
	AdminRole      = "ADMIN"
	UserRole       = "USER"
)
