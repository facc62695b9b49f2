package models

import (
	"time"
)

// Follow represents a directed user-follows-author edge. The composite
// unique index keeps a (user, author) pair to at most one row; self-follows
// are rejected in the control layer, not here.
type Follow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:follows_pair_ux;index:follows_user_ix;column:user_id" json:"user_id"`
	AuthorID  int64     `gorm:"not null;uniqueIndex:follows_pair_ux;column:author_id" json:"author_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime;column:created_at" json:"created_at"`

	// Relationships
	User   *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Author *User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "follows"
}
