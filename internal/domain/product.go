package domain

import "time"

type Product struct {
	ID            uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string    `json:"name" gorm:"size:255;not null"`
	Description   string    `json:"description"`
	Price         float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	StockQuantity int       `json:"stockQuantity" gorm:"not null"`
	CategoryID    *uint64   `json:"categoryId" gorm:"index"`
	ImageURL      string    `json:"imageUrl" gorm:"size:255"`
	Active        bool      `json:"active" gorm:"not null;default:true;index"`
	CreatedAt     time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

type Category struct {
	ID          uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description"`
	ParentID    *uint64   `json:"parentId" gorm:"index"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Category) TableName() string {
	return "categories"
}
