// models/destination.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Publish states shared by destinations and packages
const (
	PublishStatusDraft     = "DRAFT"
	PublishStatusPublished = "PUBLISHED"
)

// Destination is a tenant-scoped travel destination counted against the
// plan's maxDestinations limit
type Destination struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID    primitive.ObjectID   `json:"tenantId" bson:"tenantId"`
	Name        string               `json:"name" bson:"name"`
	Country     string               `json:"country,omitempty" bson:"country,omitempty"`
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	Status      string               `json:"status" bson:"status"`
	Media       []string             `json:"media,omitempty" bson:"media,omitempty"`
	TagIDs      []primitive.ObjectID `json:"tagIds,omitempty" bson:"tagIds,omitempty"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// DestinationRequest represents the request body for creating or updating
// a destination
type DestinationRequest struct {
	Name        string   `json:"name" validate:"required"`
	Country     string   `json:"country,omitempty"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status" validate:"required,oneof=DRAFT PUBLISHED"`
	Media       []string `json:"media,omitempty"`
	TagIDs      []string `json:"tagIds,omitempty"`
}
