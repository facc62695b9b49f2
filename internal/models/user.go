package models

import (
	"time"
)

// User represents a registered account
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Username     string    `gorm:"type:varchar(150);not null;uniqueIndex:users_username_ux;column:username" json:"username"`
	Email        string    `gorm:"type:varchar(254);not null;column:email" json:"email"`
	PasswordHash string    `gorm:"type:varchar(128);not null;column:password_hash" json:"-"`
	FirstName    string    `gorm:"type:varchar(150);not null;default:'';column:first_name" json:"first_name"`
	LastName     string    `gorm:"type:varchar(150);not null;default:'';column:last_name" json:"last_name"`
	JoinedAt     time.Time `gorm:"not null;autoCreateTime;column:joined_at" json:"joined_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
