package user

import (
	"database/sql"
	"time"
)

// Roles
const (
	RoleUser           = "USER"
	RoleContentManager = "CONTENT_MANAGER"
	RoleAdmin          = "ADMIN"
)

// Content types a content manager can own
const (
	ContentTypeAudio = "AUDIO"
	ContentTypeVideo = "VIDEO"
)

const DefaultPhoto = "/static/photos/avatar.png"

// User is the account row. ResetToken and ResetExpires are set and cleared
// together: a consumed or expired token never survives without its expiry.
type User struct {
	ID          string         `db:"id" json:"id"`
	Email       string         `db:"email" json:"email"`
	Name        string         `db:"name" json:"name"`
	Surname     string         `db:"surname" json:"surname"`
	Alias       string         `db:"alias" json:"alias"`
	BirthDate   time.Time      `db:"birth_date" json:"birth_date"`
	Password    string         `db:"password" json:"-"`
	VIP         bool           `db:"vip" json:"vip"`
	VIPSince    sql.NullTime   `db:"vip_since" json:"vip_since,omitempty"`
	Photo       string         `db:"photo" json:"photo"`
	Role        string         `db:"role" json:"role"`
	Description sql.NullString `db:"description" json:"description,omitempty"`
	Speciality  sql.NullString `db:"speciality" json:"speciality,omitempty"`
	ContentType sql.NullString `db:"content_type" json:"content_type,omitempty"`
	Blocked     bool           `db:"blocked" json:"blocked"`
	ResetToken  sql.NullString `db:"reset_token" json:"-"`
	ResetExpiry sql.NullTime   `db:"reset_expires" json:"-"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// RegisterRequest is the registration payload. The HTTP boundary validates
// it as a typed struct; nothing downstream pokes at loose maps.
type RegisterRequest struct {
	Name            string `json:"name"`
	Surname         string `json:"surname"`
	Alias           string `json:"alias"`
	Email           string `json:"email"`
	BirthDate       string `json:"birth_date"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	VIP             bool   `json:"vip"`
	Photo           string `json:"photo"`
	Role            string `json:"role"`
	Description     string `json:"description"`
	Speciality      string `json:"speciality"`
	ContentType     string `json:"content_type"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse is the public projection of a user
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Alias string `json:"alias"`
	Role  string `json:"role"`
	VIP   bool   `json:"vip"`
}

// UpdateCreatorRequest carries the fields an admin may patch on a content
// manager account. Nil pointers leave the field untouched.
type UpdateCreatorRequest struct {
	Alias   *string `json:"alias"`
	Name    *string `json:"name"`
	Surname *string `json:"surname"`
	Email   *string `json:"email"`
	Photo   *string `json:"photo"`
}

func (u *User) toResponse() UserResponse {
	return UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Alias: u.Alias,
		Role:  u.Role,
		VIP:   u.VIP,
	}
}
