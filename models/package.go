// models/package.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItineraryDay is one day of a package itinerary
type ItineraryDay struct {
	Day         int    `json:"day" bson:"day"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// TravelPackage is a tenant-scoped tour package counted against the plan's
// maxPackages limit
type TravelPackage struct {
	ID            primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID      primitive.ObjectID   `json:"tenantId" bson:"tenantId"`
	Name          string               `json:"name" bson:"name"`
	DestinationID *primitive.ObjectID  `json:"destinationId,omitempty" bson:"destinationId,omitempty"`
	PriceFrom     float64              `json:"priceFrom" bson:"priceFrom"`
	Days          int                  `json:"days,omitempty" bson:"days,omitempty"`
	Nights        int                  `json:"nights,omitempty" bson:"nights,omitempty"`
	Status        string               `json:"status" bson:"status"`
	Itinerary     []ItineraryDay       `json:"itinerary,omitempty" bson:"itinerary,omitempty"`
	Inclusions    []string             `json:"inclusions,omitempty" bson:"inclusions,omitempty"`
	Exclusions    []string             `json:"exclusions,omitempty" bson:"exclusions,omitempty"`
	Media         []string             `json:"media,omitempty" bson:"media,omitempty"`
	TagIDs        []primitive.ObjectID `json:"tagIds,omitempty" bson:"tagIds,omitempty"`
	CreatedAt     time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// PackageRequest represents the request body for creating or updating
// a travel package
type PackageRequest struct {
	Name          string         `json:"name" validate:"required"`
	DestinationID string         `json:"destinationId,omitempty"`
	PriceFrom     float64        `json:"priceFrom" validate:"gte=0"`
	Days          int            `json:"days,omitempty" validate:"omitempty,gte=1"`
	Nights        int            `json:"nights,omitempty" validate:"omitempty,gte=0"`
	Status        string         `json:"status" validate:"required,oneof=DRAFT PUBLISHED"`
	Itinerary     []ItineraryDay `json:"itinerary,omitempty"`
	Inclusions    []string       `json:"inclusions,omitempty"`
	Exclusions    []string       `json:"exclusions,omitempty"`
	Media         []string       `json:"media,omitempty"`
	TagIDs        []string       `json:"tagIds,omitempty"`
}
