package engine

import (
	"errors"
	"testing"

	"github.com/tripnest/tripnest_backend/models"
)

func TestValidateConversion(t *testing.T) {
	qualified := &models.Lead{Status: models.LeadStatusQualified}
	won := &models.Lead{Status: models.LeadStatusWon}

	tests := []struct {
		name     string
		lead     *models.Lead
		req      models.ConvertLeadRequest
		wantCode string
	}{
		{
			"valid with destination",
			qualified,
			models.ConvertLeadRequest{DestinationID: "abc", TotalAmount: 1000, PaidAmount: 200},
			"",
		},
		{
			"valid with package only",
			qualified,
			models.ConvertLeadRequest{PackageID: "def", TotalAmount: 1000},
			"",
		},
		{
			"missing lead",
			nil,
			models.ConvertLeadRequest{DestinationID: "abc", TotalAmount: 1000},
			CodeLeadNotFound,
		},
		{
			"already converted",
			won,
			models.ConvertLeadRequest{DestinationID: "abc", TotalAmount: 1000},
			CodeLeadAlreadyConverted,
		},
		{
			"no target",
			qualified,
			models.ConvertLeadRequest{TotalAmount: 1000},
			CodeMissingTarget,
		},
		{
			"zero total",
			qualified,
			models.ConvertLeadRequest{DestinationID: "abc", TotalAmount: 0},
			CodeInvalidAmounts,
		},
		{
			"overpaid",
			qualified,
			models.ConvertLeadRequest{DestinationID: "abc", TotalAmount: 100, PaidAmount: 150},
			CodeInvalidAmounts,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConversion(tt.lead, &tt.req)
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("ValidateConversion() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateConversion() expected error, got nil")
			}
			if got := ConversionCode(err); got != tt.wantCode {
				t.Errorf("ConversionCode() = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestConversionStaysNonWonOnFailure(t *testing.T) {
	// A failed validation must not have mutated the lead
	lead := &models.Lead{Status: models.LeadStatusQualified}
	req := models.ConvertLeadRequest{TotalAmount: 0}
	if err := ValidateConversion(lead, &req); err == nil {
		t.Fatal("expected error")
	}
	if lead.Status != models.LeadStatusQualified {
		t.Errorf("lead status changed to %q", lead.Status)
	}
	if lead.BookingID != nil {
		t.Error("lead gained a booking reference")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &ValidationError{Field: "x"}, 400},
		{"limit", &LimitError{Kind: KindAgent, Reason: ReasonLimitReached}, 403},
		{"conflict", &ConflictError{Code: CodeLeadAlreadyConverted}, 409},
		{"not found", &NotFoundError{Entity: "lead"}, 404},
		{"unknown", errors.New("boom"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus(%T) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
