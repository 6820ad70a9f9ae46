// engine/convert.go
package engine

import (
	"github.com/tripnest/tripnest_backend/models"
)

// ValidateConversion checks the pure preconditions of a lead-to-booking
// conversion: the lead must not already be WON, a destination or package
// must be chosen, and the amounts must satisfy the booking invariant.
// The already-converted check is repeated as a conditional write inside
// the conversion transaction; this check only produces the early error.
func ValidateConversion(lead *models.Lead, req *models.ConvertLeadRequest) error {
	if lead == nil {
		return &NotFoundError{Entity: "lead"}
	}
	if lead.Status == models.LeadStatusWon {
		return &ConflictError{
			Code:    CodeLeadAlreadyConverted,
			Message: "lead has already been converted to a booking",
		}
	}
	if req.DestinationID == "" && req.PackageID == "" {
		return &ValidationError{
			Field:   "destinationId",
			Message: "a destination or package is required",
		}
	}
	return ValidateAmounts(req.TotalAmount, req.PaidAmount)
}

// ConversionCode maps a conversion error to its wire code
func ConversionCode(err error) string {
	switch e := err.(type) {
	case *NotFoundError:
		return CodeLeadNotFound
	case *ConflictError:
		return e.Code
	case *ValidationError:
		if e.Field == "destinationId" {
			return CodeMissingTarget
		}
		return CodeInvalidAmounts
	}
	return ""
}
