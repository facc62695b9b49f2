package models

import (
	"database/sql"
	"time"
)

// Post represents a text post, optionally attached to a group and an image.
// All listings order posts newest-first by creation time.
type Post struct {
	ID        int64         `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Text      string        `gorm:"type:text;not null;column:text" json:"text"`
	CreatedAt time.Time     `gorm:"not null;autoCreateTime;index:posts_created_ix,sort:desc;column:created_at" json:"created_at"`
	AuthorID  int64         `gorm:"not null;index:posts_author_ix;column:author_id" json:"author_id"`
	GroupID   sql.NullInt64 `gorm:"index:posts_group_ix;column:group_id" json:"-"`
	Image     string        `gorm:"type:varchar(1024);not null;default:'';column:image" json:"image"`

	// Relationships. Deleting a group clears the post's group reference;
	// deleting the author removes the post.
	Author *User  `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Group  *Group `gorm:"foreignKey:GroupID;references:ID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}
