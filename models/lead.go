// models/lead.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lead statuses
const (
	LeadStatusNew       = "NEW"
	LeadStatusContacted = "CONTACTED"
	LeadStatusQualified = "QUALIFIED"
	LeadStatusWon       = "WON"
	LeadStatusLost      = "LOST"
)

// Lead sources
const (
	LeadSourceWebsite  = "WEBSITE"
	LeadSourceWhatsapp = "WHATSAPP"
	LeadSourceCall     = "CALL"
	LeadSourceReferral = "REFERRAL"
	LeadSourceManual   = "MANUAL"
)

// Lead represents a sales inquiry. Once status is WON the lead is linked
// to exactly one booking and is no longer eligible for conversion.
type Lead struct {
	ID            primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID      primitive.ObjectID  `json:"tenantId" bson:"tenantId"`
	Name          string              `json:"name" bson:"name"`
	Phone         string              `json:"phone" bson:"phone"`
	Email         string              `json:"email,omitempty" bson:"email,omitempty"`
	TravelDate    time.Time           `json:"travelDate" bson:"travelDate"`
	Travelers     int                 `json:"travelers" bson:"travelers"`
	Budget        float64             `json:"budget" bson:"budget"`
	Source        string              `json:"source" bson:"source"`
	Status        string              `json:"status" bson:"status"`
	Notes         string              `json:"notes,omitempty" bson:"notes,omitempty"`
	AssignedToID  *primitive.ObjectID `json:"assignedToId,omitempty" bson:"assignedToId,omitempty"`
	DestinationID *primitive.ObjectID `json:"destinationId,omitempty" bson:"destinationId,omitempty"`
	PackageID     *primitive.ObjectID `json:"packageId,omitempty" bson:"packageId,omitempty"`
	BookingID     *primitive.ObjectID `json:"bookingId,omitempty" bson:"bookingId,omitempty"`
	CreatedAt     time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// LeadRequest represents the request body for creating or updating a lead
type LeadRequest struct {
	Name          string  `json:"name" validate:"required"`
	Phone         string  `json:"phone" validate:"required"`
	Email         string  `json:"email,omitempty" validate:"omitempty,email"`
	TravelDate    string  `json:"travelDate" validate:"required"`
	Travelers     int     `json:"travelers" validate:"required,gte=1"`
	Budget        float64 `json:"budget" validate:"required,gt=0"`
	Source        string  `json:"source" validate:"required,oneof=WEBSITE WHATSAPP CALL REFERRAL MANUAL"`
	Notes         string  `json:"notes,omitempty"`
	AssignedToID  string  `json:"assignedToId,omitempty"`
	DestinationID string  `json:"destinationId,omitempty"`
	PackageID     string  `json:"packageId,omitempty"`
}

// UpdateLeadStatusRequest is a bare status update. Setting WON this way is
// rejected; WON is only entered through conversion.
type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=NEW CONTACTED QUALIFIED WON LOST"`
}

// ConvertLeadRequest is the payload for converting a lead into a booking.
// At least one of destinationId/packageId is required.
type ConvertLeadRequest struct {
	DestinationID string  `json:"destinationId,omitempty"`
	PackageID     string  `json:"packageId,omitempty"`
	TotalAmount   float64 `json:"totalAmount" validate:"required"`
	PaidAmount    float64 `json:"paidAmount"`
}
