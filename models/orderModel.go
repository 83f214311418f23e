package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status lifecycle. New orders enter the admin dashboard through the
// change-stream aggregator, which only watches inserts with status "new".
const (
	OrderStatusNew       = "new"
	OrderStatusPreparing = "preparing"
	OrderStatusServed    = "served"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Per-item status values.
const (
	ItemStatusPending   = "pending"
	ItemStatusPreparing = "preparing"
	ItemStatusReady     = "ready"
	ItemStatusServed    = "served"
)

type OrderItem struct {
	Name     string  `bson:"name" json:"name" validate:"required,min=1,max=100"`
	Quantity int     `bson:"quantity" json:"quantity" validate:"required,gt=0"`
	Price    float64 `bson:"price" json:"price" validate:"required,gt=0"`
	Status   string  `bson:"status" json:"status"`
}

type Order struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Order_id     string             `bson:"order_id" json:"order_id"`
	Table_number string             `bson:"table_number" json:"table_number" validate:"required"`
	Guest_count  int                `bson:"guest_count" json:"guest_count"`
	Items        []OrderItem        `bson:"items" json:"items" validate:"required,min=1,dive"`
	Total_amount float64            `bson:"total_amount" json:"total_amount"`
	Status       string             `bson:"status" json:"status"`
	Store_id     string             `bson:"store_id" json:"store_id" validate:"required"`
	Created_at   time.Time          `bson:"created_at" json:"created_at"`
	Updated_at   time.Time          `bson:"updated_at" json:"updated_at"`
}
