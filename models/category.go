package models

// Category groups products for browsing and filtering.
// Names are unique across all categories.
type Category struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"size:100;uniqueIndex;not null"`
	Description *string `gorm:"size:255"`
}

func (c *Category) TableName() string {
	return "categories"
}
