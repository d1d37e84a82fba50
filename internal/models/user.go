package models

import "time"

// User represents a row in the PostgreSQL users table. Profile fields are
// embedded directly on the user rather than living in a separate table.
type User struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Password    string     `json:"-"` // never serialize
	Bio         *string    `json:"bio"`
	Avatar      *string    `json:"avatar"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ProfileComplete reports whether bio, avatar and date of birth are all set.
// Post creation is gated on this.
func (u *User) ProfileComplete() bool {
	return u.Bio != nil && u.Avatar != nil && u.DateOfBirth != nil
}

// PublicProfile is the projection of a user exposed to anyone. Email and
// date of birth stay private.
type PublicProfile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Bio       *string   `json:"bio"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the public projection of the user.
func (u *User) Public() *PublicProfile {
	return &PublicProfile{
		ID:        u.ID,
		Name:      u.Name,
		Bio:       u.Bio,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

// ProfilePatch carries a partial profile update. Nil means the field was
// omitted and must be left untouched.
type ProfilePatch struct {
	Bio         *string    `json:"bio"`
	Avatar      *string    `json:"avatar"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

// SignupRequest is the JSON body for POST /signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
