package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the store.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"type:varchar(200);not null"`
	Slug        string          `json:"slug" gorm:"uniqueIndex;type:varchar(200);not null"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Stock       int             `json:"stock" gorm:"not null"`
	ImagePath   *string         `json:"image_path,omitempty" gorm:"type:varchar(500)"`
	Active      bool            `json:"active" gorm:"not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Category groups products for browsing.
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(120);not null"`
	Slug string `json:"slug" gorm:"uniqueIndex;type:varchar(120);not null"`
}

// ProductCategory links a product to a category.
type ProductCategory struct {
	ProductID  uint `json:"product_id" gorm:"primaryKey;autoIncrement:false"`
	CategoryID uint `json:"category_id" gorm:"primaryKey;autoIncrement:false"`
}

func (ProductCategory) TableName() string { return "product_categories" }

// ProductView is a product as shown to shoppers, with its image resolved.
type ProductView struct {
	Product
	ImageURL string `json:"image_url,omitempty"`
}
