package models

// Group represents a named category posts may optionally belong to.
// Identity for lookups is the slug.
type Group struct {
	ID          int64  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Title       string `gorm:"type:varchar(200);not null;column:title" json:"title"`
	Slug        string `gorm:"type:varchar(50);not null;uniqueIndex:groups_slug_ux;column:slug" json:"slug"`
	Description string `gorm:"type:varchar(400);not null;default:'';column:description" json:"description"`
}

// TableName specifies the table name for Group
func (Group) TableName() string {
	return "groups"
}
