// engine/lifecycle.go
package engine

import (
	"github.com/tripnest/tripnest_backend/models"
)

// validLeadStatuses is the full lead state set
var validLeadStatuses = map[string]bool{
	models.LeadStatusNew:       true,
	models.LeadStatusContacted: true,
	models.LeadStatusQualified: true,
	models.LeadStatusWon:       true,
	models.LeadStatusLost:      true,
}

// IsLeadStatus reports whether s names a lead status
func IsLeadStatus(s string) bool {
	return validLeadStatuses[s]
}

// CanTransitionLead checks an operator-initiated status change. Operators
// may move a lead between any states, including reopening LOST, with two
// exceptions: WON is terminal once entered, and WON itself can only be
// entered through conversion because it implies a linked booking.
func CanTransitionLead(current, next string) error {
	if !validLeadStatuses[next] {
		return &ValidationError{Field: "status", Message: "unknown lead status " + next}
	}
	if current == models.LeadStatusWon {
		return &ConflictError{
			Code:    CodeLeadAlreadyConverted,
			Message: "lead is already converted and its status is final",
		}
	}
	if next == models.LeadStatusWon {
		return &ValidationError{
			Field:   "status",
			Message: "WON is set by converting the lead to a booking, not by a status update",
		}
	}
	return nil
}

// ValidateLead checks a lead payload before create/update. Reference checks
// (assigned agent exists and is active) happen at the storage boundary.
func ValidateLead(req *models.LeadRequest) error {
	if req.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if req.Phone == "" {
		return &ValidationError{Field: "phone", Message: "phone is required"}
	}
	if req.TravelDate == "" {
		return &ValidationError{Field: "travelDate", Message: "travel date is required"}
	}
	if req.Budget <= 0 {
		return &ValidationError{Field: "budget", Message: "budget must be greater than 0"}
	}
	if req.Travelers < 1 {
		return &ValidationError{Field: "travelers", Message: "travelers must be at least 1"}
	}
	return nil
}
