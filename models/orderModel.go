package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses
const (
	OrderActive    = "active"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// Payment statuses
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// OrderItem is embedded in an order. Price is snapshotted at add time: menu price
// changes do not retroactively affect open orders.
type OrderItem struct {
	Product  string  `bson:"product" json:"product" validate:"required"`
	Name     string  `bson:"name" json:"name"`
	Quantity int     `bson:"quantity" json:"quantity" validate:"required,min=1"`
	Price    float64 `bson:"price" json:"price" validate:"min=0"`
	Subtotal float64 `bson:"subtotal" json:"subtotal"`
}

type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	TableNumber   *int               `bson:"tableNumber" json:"tableNumber" validate:"required,min=1"`
	Items         []OrderItem        `bson:"items" json:"items" validate:"required,min=1,dive"`
	Subtotal      float64            `bson:"subtotal" json:"subtotal"`
	Gst           float64            `bson:"gst" json:"gst"`
	Total         float64            `bson:"total" json:"total"`
	Status        string             `bson:"status" json:"status" validate:"eq=active|eq=completed|eq=cancelled|eq="`
	PaymentStatus string             `bson:"paymentStatus" json:"paymentStatus" validate:"eq=pending|eq=completed|eq=failed|eq="`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod" validate:"eq=cash|eq=card|eq=upi|eq="`
	ServedBy      string             `bson:"servedBy" json:"servedBy"`
	OrderDate     time.Time          `bson:"orderDate" json:"orderDate"`
	CompletedAt   *time.Time         `bson:"completedAt" json:"completedAt"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
