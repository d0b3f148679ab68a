package models

import "time"

// DefaultAvatar is the avatar filename assigned at registration until the
// user uploads their own picture.
const DefaultAvatar = "default.jpg"

// User represents a registered account.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"` // Never serialize the hash
	AvatarFilename string    `json:"avatar_filename"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
