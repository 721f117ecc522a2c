package models

// Tag is a topic label attached to posts. Names are unique; the
// association with posts lives in the post_tags join table.
type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:50;unique;not null" json:"name"`
	Posts []Post `gorm:"many2many:post_tags" json:"-"`
}
