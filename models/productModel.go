package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductCategories is the fixed catalog category set.
var ProductCategories = []string{"Burgers", "Pizza", "Pasta", "Salads", "Desserts", "Beverages"}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name        *string            `bson:"name" json:"name" validate:"required,min=2,max=100"`
	Description *string            `bson:"description" json:"description" validate:"required"`
	Price       *float64           `bson:"price" json:"price" validate:"required,min=0"`
	Category    *string            `bson:"category" json:"category" validate:"required,eq=Burgers|eq=Pizza|eq=Pasta|eq=Salads|eq=Desserts|eq=Beverages"`
	Image       *string            `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
