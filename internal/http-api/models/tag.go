package models

const (
	MaxTagNameLength = 32
	MaxTagSlugLength = 32
)

type Tag struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:32;uniqueIndex;not null" json:"name"`
	Slug string `gorm:"size:32;uniqueIndex;not null" json:"slug"`
}

func (Tag) TableName() string {
	return "tags"
}
