package domain

import (
	"time"
)

// CREATE TABLE public.products (
//     id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
//     name        TEXT NOT NULL,
//     description TEXT,
//     category    TEXT NOT NULL,
//     price       NUMERIC NOT NULL,
//     image_url   TEXT,
//     created_at  TIMESTAMPTZ DEFAULT NOW()
// );

type Product struct {
	ID          string    `gorm:"primaryKey;column:id;type:uuid;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"column:name;type:text;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Category    string    `gorm:"column:category;type:text;not null" json:"category"`
	Price       float64   `gorm:"column:price;type:numeric;not null" json:"price"`
	ImageURL    string    `gorm:"column:image_url;type:text" json:"image_url"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}
