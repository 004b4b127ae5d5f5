package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Product is a document of the products collection. Optional fields are
// pointers so an explicit empty value is stored and returned as sent.
type Product struct {
	ID          primitive.ObjectID `json:"_id,omitzero" bson:"_id,omitempty"`
	ProductName string             `json:"productName,omitempty" bson:"productName,omitempty" validate:"required,max=200"`
	Price       *float64           `json:"price,omitempty" bson:"price,omitempty" validate:"omitempty,gte=0"`
	Description *string            `json:"description,omitempty" bson:"description,omitempty"`
	BrandName   *string            `json:"brandName,omitempty" bson:"brandName,omitempty"`
	Stock       *int               `json:"stock,omitempty" bson:"stock,omitempty" validate:"omitempty,gte=0"`
	Colors      *[]string          `json:"colors,omitempty" bson:"colors,omitempty" validate:"omitempty,dive,required"`
	Category    *string            `json:"category,omitempty" bson:"category,omitempty"`
	Images      *[]string          `json:"images,omitempty" bson:"images,omitempty" validate:"omitempty,dive,required"`
}

// ProductUpdate holds the fields a PUT is allowed to change. Nil fields are left untouched.
type ProductUpdate struct {
	ProductName *string   `json:"productName,omitempty" validate:"omitempty,min=1,max=200"`
	Price       *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	Description *string   `json:"description,omitempty"`
	BrandName   *string   `json:"brandName,omitempty"`
	Stock       *int      `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Colors      *[]string `json:"colors,omitempty" validate:"omitempty,dive,required"`
	Category    *string   `json:"category,omitempty"`
	Images      *[]string `json:"images,omitempty" validate:"omitempty,dive,required"`
}

// SetDocument builds the $set body from the non-nil fields.
func (u ProductUpdate) SetDocument() map[string]any {
	set := make(map[string]any, 8)
	if u.ProductName != nil {
		set["productName"] = *u.ProductName
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.BrandName != nil {
		set["brandName"] = *u.BrandName
	}
	if u.Stock != nil {
		set["stock"] = *u.Stock
	}
	if u.Colors != nil {
		set["colors"] = *u.Colors
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Images != nil {
		set["images"] = *u.Images
	}
	return set
}

// InsertResult mirrors the driver's insert acknowledgment.
type InsertResult struct {
	Acknowledged bool               `json:"acknowledged"`
	InsertedID   primitive.ObjectID `json:"insertedId"`
}

// UpdateResult mirrors the driver's update acknowledgment.
type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
	UpsertedID    any   `json:"upsertedId"`
}

// DeleteResult mirrors the driver's delete acknowledgment.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}
