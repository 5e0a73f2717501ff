package models

import "time"

// Product represents a product in the catalog.
// The (name, price, category, company) tuple is unique.
type Product struct {
	ID        string    `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" bson:"name" gorm:"type:varchar(255);uniqueIndex:idx_product_identity"`
	Price     string    `json:"price" bson:"price" gorm:"type:varchar(32);uniqueIndex:idx_product_identity"`
	Category  string    `json:"category" bson:"category" gorm:"type:varchar(255);uniqueIndex:idx_product_identity"`
	Company   string    `json:"company" bson:"company" gorm:"type:varchar(255);uniqueIndex:idx_product_identity"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ProductFields is the mutable part of a Product, already trimmed and normalized.
type ProductFields struct {
	Name     string
	Price    string
	Category string
	Company  string
}

// Apply copies the fields onto p.
func (f ProductFields) Apply(p *Product) {
	p.Name = f.Name
	p.Price = f.Price
	p.Category = f.Category
	p.Company = f.Company
}
