package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Menu struct {
	ID         primitive.ObjectID `bson:"_id"`
	Menu_id    string             `bson:"menu_id" json:"menu_id"`
	Name       string             `bson:"name" json:"name" validate:"required,min=2,max=100"`
	Category   string             `bson:"category" json:"category" validate:"required,min=2,max=50"`
	Store_id   string             `bson:"store_id" json:"store_id" validate:"required"`
	Created_at time.Time          `bson:"created_at" json:"created_at"`
	Updated_at time.Time          `bson:"updated_at" json:"updated_at"`
}
