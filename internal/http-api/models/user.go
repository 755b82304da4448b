package models

import "time"

// Roles a user can hold. Admins get the /api/admin surface.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Field limits shared by models, DTO bindings and services.
const (
	MaxEmailLength     = 254
	MaxUsernameLength  = 150
	MaxFirstNameLength = 150
	MaxLastNameLength  = 150
)

type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username  string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName string    `gorm:"size:150;not null" json:"first_name"`
	LastName  string    `gorm:"size:150;not null" json:"last_name"`
	Password  string    `gorm:"column:password_hash;not null" json:"-"`
	Avatar    *string   `gorm:"size:255" json:"avatar,omitempty"` // storage key, nil when unset
	Role      string    `gorm:"size:16;default:'user';not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
