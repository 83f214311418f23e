package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Table status values. Transitions are driven by order creation and
// completion: creating an order occupies the table, serving marks it served,
// completing or cancelling the order frees it again.
const (
	TableStatusEmpty    = "empty"
	TableStatusOccupied = "occupied"
	TableStatusServed   = "served"
)

type Table struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Table_id         string             `bson:"table_id" json:"table_id"`
	Table_number     *int               `bson:"table_number" json:"table_number" validate:"required,gt=0"`
	Status           string             `bson:"status" json:"status"`
	Number_of_guests *int               `bson:"number_of_guests" json:"number_of_guests"`
	Current_order_id *string            `bson:"current_order_id" json:"current_order_id"`
	Store_id         string             `bson:"store_id" json:"store_id" validate:"required"`
	Created_at       time.Time          `bson:"created_at" json:"created_at"`
	Updated_at       time.Time          `bson:"updated_at" json:"updated_at"`
}
