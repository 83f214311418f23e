package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MenuItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Menu_item_id string             `bson:"menu_item_id" json:"menu_item_id"`
	Name         *string            `bson:"name" json:"name" validate:"required,min=2,max=100"`
	Price        *float64           `bson:"price" json:"price" validate:"required"`
	Item_image   *string            `bson:"item_image" json:"item_image"`
	Menu_id      *string            `bson:"menu_id" json:"menu_id" validate:"required"`
	Store_id     string             `bson:"store_id" json:"store_id"`
	Available    *bool              `bson:"available" json:"available"`
	Created_at   time.Time          `bson:"created_at" json:"created_at"`
	Updated_at   time.Time          `bson:"updated_at" json:"updated_at"`
}
