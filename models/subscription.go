// models/subscription.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription statuses
const (
	SubscriptionStatusActive    = "ACTIVE"
	SubscriptionStatusTrial     = "TRIAL"
	SubscriptionStatusExpired   = "EXPIRED"
	SubscriptionStatusSuspended = "SUSPENDED"
)

// Subscription links exactly one tenant to exactly one plan. A tenant has
// zero or one subscription; reassigning replaces the link in place.
type Subscription struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID   primitive.ObjectID `json:"tenantId" bson:"tenantId"`
	PlanID     primitive.ObjectID `json:"planId" bson:"planId"`
	Status     string             `json:"status" bson:"status"`
	AssignedAt time.Time          `json:"assignedAt" bson:"assignedAt"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// AssignSubscriptionRequest assigns (or reassigns) a plan to a tenant
type AssignSubscriptionRequest struct {
	TenantID string `json:"tenantId" validate:"required"`
	PlanID   string `json:"planId" validate:"required"`
}

// SubscriptionDetails is a subscription joined with its plan
type SubscriptionDetails struct {
	ID     primitive.ObjectID `json:"id"`
	Status string             `json:"status"`
	Plan   Plan               `json:"plan"`
}
