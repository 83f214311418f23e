package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Approval status values for a registered store owner. A user only holds a
// valid session while is_active is true and approval_status is "approved";
// the client never mutates these fields itself.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	User_id         string             `bson:"user_id" json:"user_id"`
	First_name      *string            `bson:"first_name" json:"first_name" validate:"required,min=2,max=100"`
	Last_name       *string            `bson:"last_name" json:"last_name" validate:"required,min=1,max=100"`
	Email           *string            `bson:"email" json:"email" validate:"required,email"`
	Phone           *string            `bson:"phone" json:"phone" validate:"required"`
	Password        *string            `bson:"password" json:"password,omitempty" validate:"required,min=6"`
	Avatar          *string            `bson:"avatar" json:"avatar"`
	Store_id        string             `bson:"store_id" json:"store_id"`
	Store_name      *string            `bson:"store_name" json:"store_name" validate:"required,min=2,max=100"`
	Store_address   *string            `bson:"store_address" json:"store_address"`
	Is_active       *bool              `bson:"is_active" json:"is_active"`
	Approval_status string             `bson:"approval_status" json:"approval_status"`
	Token           *string            `bson:"token" json:"token,omitempty"`
	Refresh_Token   *string            `bson:"refresh_token" json:"refresh_token,omitempty"`
	Created_at      time.Time          `bson:"created_at" json:"created_at"`
	Updated_at      time.Time          `bson:"updated_at" json:"updated_at"`
}
