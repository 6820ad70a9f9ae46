package engine

import (
	"errors"
	"testing"

	"github.com/tripnest/tripnest_backend/models"
)

func TestDerivePaymentLabel(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		paid  float64
		want  string
	}{
		{"nothing paid", 100, 0, PaymentPending},
		{"half paid", 100, 50, PaymentPartial},
		{"fully paid", 100, 100, PaymentFullyPaid},
		{"tiny payment", 100, 0.01, PaymentPartial},
		{"almost paid", 100, 99.99, PaymentPartial},
		{"large amounts", 125000, 125000, PaymentFullyPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DerivePaymentLabel(tt.total, tt.paid); got != tt.want {
				t.Errorf("DerivePaymentLabel(%v, %v) = %q, want %q", tt.total, tt.paid, got, tt.want)
			}
		})
	}
}

func TestValidateAmounts(t *testing.T) {
	tests := []struct {
		name      string
		total     float64
		paid      float64
		wantField string
	}{
		{"valid pending", 100, 0, ""},
		{"valid partial", 100, 50, ""},
		{"valid fully paid", 100, 100, ""},
		{"zero total", 0, 0, "totalAmount"},
		{"negative total", -50, 0, "totalAmount"},
		{"negative paid", 100, -1, "paidAmount"},
		{"overpaid", 100, 100.0001, "paidAmount"},
		{"grossly overpaid", 100, 500, "paidAmount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmounts(tt.total, tt.paid)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("ValidateAmounts(%v, %v) unexpected error: %v", tt.total, tt.paid, err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("ValidateAmounts(%v, %v) error = %v, want *ValidationError", tt.total, tt.paid, err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("ValidateAmounts(%v, %v) field = %q, want %q", tt.total, tt.paid, ve.Field, tt.wantField)
			}
		})
	}
}

func TestDueAmount(t *testing.T) {
	if got := DueAmount(100, 30); got != 70 {
		t.Errorf("DueAmount(100, 30) = %v, want 70", got)
	}
	if got := DueAmount(100, 100); got != 0 {
		t.Errorf("DueAmount(100, 100) = %v, want 0", got)
	}
}

func TestCanEditBookingAmounts(t *testing.T) {
	for _, status := range []string{
		models.BookingStatusConfirmed,
		models.BookingStatusPartialPaid,
		models.BookingStatusFullyPaid,
	} {
		if err := CanEditBookingAmounts(status); err != nil {
			t.Errorf("CanEditBookingAmounts(%s) unexpected error: %v", status, err)
		}
	}

	err := CanEditBookingAmounts(models.BookingStatusCancelled)
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("CanEditBookingAmounts(CANCELLED) error = %v, want *ConflictError", err)
	}
}

func TestCanChangeBookingStatus(t *testing.T) {
	for _, status := range []string{
		models.BookingStatusConfirmed,
		models.BookingStatusPartialPaid,
		models.BookingStatusFullyPaid,
	} {
		if err := CanChangeBookingStatus(status); err != nil {
			t.Errorf("CanChangeBookingStatus(%s) unexpected error: %v", status, err)
		}
	}

	// A cancelled booking stays cancelled
	err := CanChangeBookingStatus(models.BookingStatusCancelled)
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("CanChangeBookingStatus(CANCELLED) error = %v, want *ConflictError", err)
	}
	if ce.Code != "BOOKING_CANCELLED" {
		t.Errorf("CanChangeBookingStatus(CANCELLED) code = %q, want BOOKING_CANCELLED", ce.Code)
	}
}
