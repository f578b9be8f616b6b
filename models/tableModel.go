package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Table statuses
const (
	TableAvailable = "available"
	TableEngaged   = "engaged"
	TableReserved  = "reserved"
)

type Table struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	TableNumber  *int               `bson:"tableNumber" json:"tableNumber" validate:"required,min=1"`
	Capacity     *int               `bson:"capacity" json:"capacity" validate:"required,min=1"`
	Status       string             `bson:"status" json:"status" validate:"eq=available|eq=engaged|eq=reserved|eq="`
	CurrentOrder *string            `bson:"currentOrder" json:"currentOrder"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
