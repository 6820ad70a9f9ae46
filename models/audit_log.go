// models/audit_log.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audited entity types
const (
	AuditEntityLead    = "LEAD"
	AuditEntityBooking = "BOOKING"
	AuditEntityTenant  = "TENANT"
)

// Audit actions
const (
	AuditActionLeadCreated      = "LEAD_CREATED"
	AuditActionLeadUpdated      = "LEAD_UPDATED"
	AuditActionLeadStatusChange = "LEAD_STATUS_CHANGED"
	AuditActionLeadConverted    = "LEAD_CONVERTED"
	AuditActionBookingUpdated   = "BOOKING_UPDATED"
	AuditActionBookingStatus    = "BOOKING_STATUS_CHANGED"
	AuditActionTenantStatus     = "TENANT_STATUS_CHANGED"
)

// AuditLog records who did what to which entity, with a snapshot of the
// mutation payload
type AuditLog struct {
	ID         primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID   *primitive.ObjectID `json:"tenantId,omitempty" bson:"tenantId,omitempty"`
	EntityType string              `json:"entityType" bson:"entityType"`
	EntityID   primitive.ObjectID  `json:"entityId" bson:"entityId"`
	Action     string              `json:"action" bson:"action"`
	ActorID    *primitive.ObjectID `json:"actorId,omitempty" bson:"actorId,omitempty"`
	ActorName  string              `json:"actorName,omitempty" bson:"actorName,omitempty"`
	Metadata   interface{}         `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt  time.Time           `json:"createdAt" bson:"createdAt"`
}
