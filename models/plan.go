// models/plan.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanLimits defines the resource quotas and feature flags of a plan.
// A limit of 0 is valid and fully restrictive.
type PlanLimits struct {
	MaxAgents       int  `json:"maxAgents" bson:"maxAgents"`
	MaxDestinations int  `json:"maxDestinations" bson:"maxDestinations"`
	MaxPackages     int  `json:"maxPackages" bson:"maxPackages"`
	MediaEnabled    bool `json:"mediaEnabled" bson:"mediaEnabled"`
}

// Plan represents a subscription tier. Plans are never deleted, only
// deactivated; code is unique and immutable after creation.
type Plan struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Code      string             `json:"code" bson:"code"`
	IsActive  bool               `json:"isActive" bson:"isActive"`
	Limits    PlanLimits         `json:"limits" bson:"limits"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PlanRequest represents the request body for creating a plan
type PlanRequest struct {
	Name     string            `json:"name" validate:"required"`
	Code     string            `json:"code" validate:"required,min=2,max=32"`
	IsActive *bool             `json:"isActive"`
	Limits   PlanLimitsRequest `json:"limits" validate:"required"`
}

// PlanLimitsRequest carries plan limits; all counts must be non-negative
type PlanLimitsRequest struct {
	MaxAgents       *int `json:"maxAgents" validate:"required,gte=0"`
	MaxDestinations *int `json:"maxDestinations" validate:"required,gte=0"`
	MaxPackages     *int `json:"maxPackages" validate:"required,gte=0"`
	MediaEnabled    bool `json:"mediaEnabled"`
}

// UpdatePlanRequest updates name and limits; code is immutable
type UpdatePlanRequest struct {
	Name   string             `json:"name,omitempty"`
	Limits *PlanLimitsRequest `json:"limits,omitempty"`
}

// UpdatePlanStatusRequest toggles plan availability for new assignment
type UpdatePlanStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}
