package model

import "time"

type UserRole string

const (
	Participant UserRole = "participant"
	Admin       UserRole = "admin"
)

// swagger:model User
type User struct {
	UUIDBase
	Email            string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash     string    `gorm:"not null" json:"-"`
	Role             UserRole  `gorm:"default:participant" json:"role"`
	FullName         string    `json:"full_name"`
	EnrollmentNumber string    `json:"enrollment_number"`
	MobileNumber     string    `json:"mobile_number"`
	Department       string    `json:"department"`
	Year             int       `json:"year"`
	IsPresent        *bool     `json:"is_present"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserFilter narrows the participant directory listing.
type UserFilter struct {
	Department string
	Year       int
}
