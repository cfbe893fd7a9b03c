package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups products in the catalogue.
type Category struct {
	ID    primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name  string             `json:"name" bson:"name"`
	Icon  string             `json:"icon" bson:"icon"`
	Color string             `json:"color" bson:"color"`
}

// CategoryRequest represents the request payload for creating or replacing a category.
type CategoryRequest struct {
	Name  string `json:"name" validate:"required"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// Product represents a product in the catalogue.
type Product struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name            string             `json:"name" bson:"name"`
	Description     string             `json:"description" bson:"description"`
	RichDescription string             `json:"richDescription" bson:"richDescription"`
	Image           string             `json:"image" bson:"image"`
	Images          []string           `json:"images" bson:"images"`
	Brand           string             `json:"brand" bson:"brand"`
	Price           float64            `json:"price" bson:"price"`
	Category        primitive.ObjectID `json:"category" bson:"category"`
	CountInStock    int                `json:"countInStock" bson:"countInStock"`
	Rating          float64            `json:"rating" bson:"rating"`
	NumReviews      int                `json:"numReviews" bson:"numReviews"`
	IsFeatured      bool               `json:"isFeatured" bson:"isFeatured"`
	DateCreated     time.Time          `json:"dateCreated" bson:"dateCreated"`
}

// ProductDetail is a product with its category populated.
// The outer Category field shadows the embedded reference when encoded.
type ProductDetail struct {
	Product
	Category *Category `json:"category"`
}

// ProductRequest represents the mutable fields of a product.
type ProductRequest struct {
	Name            string  `json:"name" validate:"required"`
	Description     string  `json:"description" validate:"required"`
	RichDescription string  `json:"richDescription"`
	Brand           string  `json:"brand"`
	Price           float64 `json:"price" validate:"gte=0"`
	Category        string  `json:"category" validate:"required"`
	CountInStock    int     `json:"countInStock" validate:"gte=0"`
	Rating          float64 `json:"rating" validate:"gte=0"`
	NumReviews      int     `json:"numReviews" validate:"gte=0"`
	IsFeatured      bool    `json:"isFeatured"`
}
