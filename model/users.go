package model

import "time"

// User account states.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// Readiness values a farmer reports at login.
const (
	ReadinessReady   = "READY"
	ReadinessCaution = "CAUTION"
	ReadinessObserve = "OBSERVE"
)

type User struct {
	UserID        string     `bson:"user_id" json:"id"`
	Email         string     `bson:"email" json:"email"`
	Name          string     `bson:"name" json:"name"`
	PasswordHash  string     `bson:"password_hash" json:"-"`
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
	LastLogin     *time.Time `bson:"last_login,omitempty" json:"last_login"`
	Status        string     `bson:"status" json:"status"`
	LastReadiness *string    `bson:"last_readiness,omitempty" json:"last_readiness"`
	ProfileImage  *string    `bson:"profile_image,omitempty" json:"profile_image"`
}

// IsActive reports whether the account may log in.
func (u *User) IsActive() bool {
	return u.Status == "" || u.Status == StatusActive
}
