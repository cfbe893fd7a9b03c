package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultOrderStatus is applied when an order is created without a status.
const DefaultOrderStatus = "Pending"

// Order represents a customer order.
type Order struct {
	ID               primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	OrderItems       []primitive.ObjectID `json:"orderItems" bson:"orderItems"`
	ShippingAddress1 string               `json:"shippingAddress1" bson:"shippingAddress1"`
	ShippingAddress2 string               `json:"shippingAddress2" bson:"shippingAddress2"`
	City             string               `json:"city" bson:"city"`
	Zip              string               `json:"zip" bson:"zip"`
	Country          string               `json:"country" bson:"country"`
	Phone            string               `json:"phone" bson:"phone"`
	Status           string               `json:"status" bson:"status"`
	TotalPrice       float64              `json:"totalPrice" bson:"totalPrice"`
	User             primitive.ObjectID   `json:"user" bson:"user"`
	DateOrdered      time.Time            `json:"dateOrdered" bson:"dateOrdered"`
}

// OrderItem represents a line item owned by exactly one order.
type OrderItem struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Quantity int                `json:"quantity" bson:"quantity"`
	Product  primitive.ObjectID `json:"product" bson:"product"`
}

// OrderRequest represents the request payload for creating an order.
type OrderRequest struct {
	OrderItems       []OrderItemRequest `json:"orderItems" validate:"dive"`
	ShippingAddress1 string             `json:"shippingAddress1" validate:"required"`
	ShippingAddress2 string             `json:"shippingAddress2"`
	City             string             `json:"city" validate:"required"`
	Zip              string             `json:"zip" validate:"required"`
	Country          string             `json:"country" validate:"required"`
	Phone            string             `json:"phone" validate:"required"`
	Status           string             `json:"status"`
	User             string             `json:"user" validate:"required"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	Product  string `json:"product" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

// OrderStatusRequest represents the request payload for updating an order.
type OrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderSummary is an order with the ordering user's name populated.
type OrderSummary struct {
	Order
	User *UserSummary `json:"user"`
}

// OrderItemDetail is an order item with its product and category populated.
type OrderItemDetail struct {
	ID       primitive.ObjectID `json:"id"`
	Quantity int                `json:"quantity"`
	Product  *ProductDetail     `json:"product"`
}

// OrderDetail is an order with user, items, products and categories populated.
type OrderDetail struct {
	Order
	User       *UserSummary      `json:"user"`
	OrderItems []OrderItemDetail `json:"orderItems"`
}

// TotalSales is the aggregate of totalPrice over every order.
type TotalSales struct {
	TotalSales float64 `json:"totalsales" bson:"totalsales"`
}
