package models

// Product is a single inventory item. Every product belongs to exactly
// one category; deleting the category deletes its products.
type Product struct {
	ID          uint     `gorm:"primaryKey"`
	Name        string   `gorm:"size:200;uniqueIndex;not null"`
	Description *string  `gorm:"type:text"`
	CategoryID  uint     `gorm:"not null;index"`
	Category    Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (p *Product) TableName() string {
	return "products"
}
