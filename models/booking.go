// models/booking.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking statuses (operator-set, independent of the derived payment label)
const (
	BookingStatusConfirmed   = "CONFIRMED"
	BookingStatusPartialPaid = "PARTIAL_PAID"
	BookingStatusFullyPaid   = "FULLY_PAID"
	BookingStatusCancelled   = "CANCELLED"
)

// Booking model. Invariant on every write: totalAmount > 0 and
// 0 <= paidAmount <= totalAmount.
type Booking struct {
	ID            primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID      primitive.ObjectID  `json:"tenantId" bson:"tenantId"`
	LeadID        primitive.ObjectID  `json:"leadId" bson:"leadId"`
	DestinationID *primitive.ObjectID `json:"destinationId,omitempty" bson:"destinationId,omitempty"`
	PackageID     *primitive.ObjectID `json:"packageId,omitempty" bson:"packageId,omitempty"`
	TotalAmount   float64             `json:"totalAmount" bson:"totalAmount"`
	PaidAmount    float64             `json:"paidAmount" bson:"paidAmount"`
	TravelDate    time.Time           `json:"travelDate,omitempty" bson:"travelDate,omitempty"`
	Travelers     int                 `json:"travelers,omitempty" bson:"travelers,omitempty"`
	Status        string              `json:"status" bson:"status"`
	CreatedAt     time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// UpdateBookingRequest updates amounts and travel details
type UpdateBookingRequest struct {
	TotalAmount float64 `json:"totalAmount" validate:"required"`
	PaidAmount  float64 `json:"paidAmount"`
	TravelDate  string  `json:"travelDate,omitempty"`
	Travelers   int     `json:"travelers,omitempty" validate:"omitempty,gte=1"`
}

// UpdateBookingStatusRequest sets the operator-facing booking status
type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=CONFIRMED PARTIAL_PAID FULLY_PAID CANCELLED"`
}

// BookingView is a booking joined with its lead and package/destination
// names for table rendering
type BookingView struct {
	Booking      `bson:",inline"`
	LeadName     string  `json:"leadName,omitempty" bson:"leadName,omitempty"`
	Package      string  `json:"packageName,omitempty" bson:"packageName,omitempty"`
	Destination  string  `json:"destinationName,omitempty" bson:"destinationName,omitempty"`
	PaymentLabel string  `json:"paymentLabel"`
	DueAmount    float64 `json:"dueAmount"`
}
