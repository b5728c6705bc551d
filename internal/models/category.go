package models

// Category groups products. Deletion is blocked while products reference it.
type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;uniqueIndex;not null"`
}

// CategoryWithCount is the read model for category listings (product_count joined in).
type CategoryWithCount struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	ProductCount int64  `json:"product_count"`
}
