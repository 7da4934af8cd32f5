package domain

import "time"

type UserType string

const (
	UserTypeLessee UserType = "lessee"
	UserTypeLessor UserType = "lessor"
	UserTypeBoth   UserType = "both"
	UserTypeAdmin  UserType = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusPending   UserStatus = "pending"
	UserStatusSuspended UserStatus = "suspended"
)

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	UserType     UserType   `json:"user_type"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Roles is what ends up in the token claims.
func (u *User) Roles() []string {
	switch u.UserType {
	case UserTypeBoth:
		return []string{string(UserTypeLessee), string(UserTypeLessor)}
	case "":
		return nil
	}
	return []string{string(u.UserType)}
}
