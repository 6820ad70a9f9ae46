// models/tenant.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tenant statuses
const (
	TenantStatusActive    = "ACTIVE"
	TenantStatusSuspended = "SUSPENDED"
)

// Tenant represents an isolated travel-agency account. Slug is unique and
// immutable after provisioning.
type Tenant struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Slug      string             `json:"slug" bson:"slug"`
	Status    string             `json:"status" bson:"status"`
	Color     string             `json:"color,omitempty" bson:"color,omitempty"`
	Logo      string             `json:"logo,omitempty" bson:"logo,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreateTenantRequest provisions a tenant together with its admin user and
// an optional initial plan assignment
type CreateTenantRequest struct {
	TenantName    string `json:"tenantName" validate:"required"`
	Slug          string `json:"slug" validate:"required,min=2,max=40"`
	AdminName     string `json:"adminName" validate:"required"`
	AdminEmail    string `json:"adminEmail" validate:"required,email"`
	AdminPassword string `json:"adminPassword" validate:"required,min=8"`
	PlanID        string `json:"planId,omitempty"`
	Logo          string `json:"logo,omitempty"`
	Color         string `json:"color,omitempty"`
}

// UpdateTenantStatusRequest switches a tenant between ACTIVE and SUSPENDED
type UpdateTenantStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE SUSPENDED"`
}

// TenantCounts carries current resource usage for a tenant
type TenantCounts struct {
	Agents       int64 `json:"agents"`
	Destinations int64 `json:"destinations"`
	Packages     int64 `json:"packages"`
}

// TenantDetails is the tenant detail payload including usage and
// the current subscription (if any)
type TenantDetails struct {
	Tenant       Tenant               `json:"tenant"`
	Admins       []User               `json:"admins"`
	Subscription *SubscriptionDetails `json:"subscription,omitempty"`
	Counts       TenantCounts         `json:"counts"`
}
