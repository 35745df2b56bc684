package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
	Name         string    `gorm:"not null;size:200" bson:"name" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null;size:320" bson:"email" json:"email"`
	PasswordHash string    `gorm:"not null" bson:"password_hash" json:"-"`
	Role         Role      `gorm:"not null;size:20" bson:"role" json:"role"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NormalizeEmail is applied to every email before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
