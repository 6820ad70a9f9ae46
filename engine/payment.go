// engine/payment.go
package engine

import (
	"github.com/tripnest/tripnest_backend/models"
)

// Derived payment labels. These are computed from amounts and are distinct
// from the operator-set booking status.
const (
	PaymentPending   = "PENDING"
	PaymentPartial   = "PARTIAL"
	PaymentFullyPaid = "FULLY_PAID"
)

// DerivePaymentLabel derives the payment state of a booking from its
// amounts. Callers must validate the amounts first.
func DerivePaymentLabel(total, paid float64) string {
	switch {
	case paid <= 0:
		return PaymentPending
	case paid >= total:
		return PaymentFullyPaid
	default:
		return PaymentPartial
	}
}

// DueAmount is total minus paid; never negative for validated amounts
func DueAmount(total, paid float64) float64 {
	return total - paid
}

// ValidateAmounts enforces the booking amount invariant:
// total > 0 and 0 <= paid <= total.
func ValidateAmounts(total, paid float64) error {
	if total <= 0 {
		return &ValidationError{Field: "totalAmount", Message: "total amount must be greater than 0"}
	}
	if paid < 0 {
		return &ValidationError{Field: "paidAmount", Message: "paid amount cannot be negative"}
	}
	if paid > total {
		return &ValidationError{Field: "paidAmount", Message: "paid amount cannot exceed total amount"}
	}
	return nil
}

// CanEditBookingAmounts rejects amount edits on cancelled bookings.
// CANCELLED is terminal.
func CanEditBookingAmounts(currentStatus string) error {
	if currentStatus == models.BookingStatusCancelled {
		return &ConflictError{
			Code:    "BOOKING_CANCELLED",
			Message: "cancelled bookings cannot be edited",
		}
	}
	return nil
}

// CanChangeBookingStatus rejects status changes once a booking is
// cancelled. CANCELLED is terminal for the operator-set status too.
func CanChangeBookingStatus(currentStatus string) error {
	if currentStatus == models.BookingStatusCancelled {
		return &ConflictError{
			Code:    "BOOKING_CANCELLED",
			Message: "cancelled bookings cannot change status",
		}
	}
	return nil
}
