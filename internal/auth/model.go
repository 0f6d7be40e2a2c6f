package auth

import "time"

// User is an operator account allowed to sign in.
type User struct {
	ID           int64
	Username     string
	DisplayName  string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
