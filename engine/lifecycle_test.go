package engine

import (
	"errors"
	"testing"

	"github.com/tripnest/tripnest_backend/models"
)

func TestCanTransitionLead(t *testing.T) {
	tests := []struct {
		name    string
		current string
		next    string
		wantErr bool
	}{
		{"new to contacted", models.LeadStatusNew, models.LeadStatusContacted, false},
		{"contacted to qualified", models.LeadStatusContacted, models.LeadStatusQualified, false},
		{"qualified to lost", models.LeadStatusQualified, models.LeadStatusLost, false},
		{"skip ahead", models.LeadStatusNew, models.LeadStatusQualified, false},
		{"move backwards", models.LeadStatusQualified, models.LeadStatusNew, false},
		{"reopen lost lead", models.LeadStatusLost, models.LeadStatusContacted, false},
		{"won is terminal", models.LeadStatusWon, models.LeadStatusLost, true},
		{"won to won", models.LeadStatusWon, models.LeadStatusWon, true},
		{"bare won rejected", models.LeadStatusQualified, models.LeadStatusWon, true},
		{"bare won from new rejected", models.LeadStatusNew, models.LeadStatusWon, true},
		{"unknown status", models.LeadStatusNew, "ARCHIVED", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransitionLead(tt.current, tt.next)
			if (err != nil) != tt.wantErr {
				t.Errorf("CanTransitionLead(%s, %s) error = %v, wantErr %v", tt.current, tt.next, err, tt.wantErr)
			}
		})
	}
}

func TestCanTransitionLeadErrorTypes(t *testing.T) {
	// Leaving WON is a conflict, entering WON directly is a validation error
	var ce *ConflictError
	if err := CanTransitionLead(models.LeadStatusWon, models.LeadStatusLost); !errors.As(err, &ce) {
		t.Errorf("leaving WON: got %T, want *ConflictError", err)
	} else if ce.Code != CodeLeadAlreadyConverted {
		t.Errorf("leaving WON: code = %q, want %q", ce.Code, CodeLeadAlreadyConverted)
	}

	var ve *ValidationError
	if err := CanTransitionLead(models.LeadStatusQualified, models.LeadStatusWon); !errors.As(err, &ve) {
		t.Errorf("entering WON: got %T, want *ValidationError", err)
	}
}

func TestValidateLead(t *testing.T) {
	valid := models.LeadRequest{
		Name:       "Jordan Smith",
		Phone:      "+15550100",
		TravelDate: "2026-10-12",
		Travelers:  2,
		Budget:     3500,
		Source:     models.LeadSourceWebsite,
	}

	tests := []struct {
		name    string
		mutate  func(r *models.LeadRequest)
		wantErr string
	}{
		{"valid", func(r *models.LeadRequest) {}, ""},
		{"missing name", func(r *models.LeadRequest) { r.Name = "" }, "name"},
		{"missing phone", func(r *models.LeadRequest) { r.Phone = "" }, "phone"},
		{"missing travel date", func(r *models.LeadRequest) { r.TravelDate = "" }, "travelDate"},
		{"zero budget", func(r *models.LeadRequest) { r.Budget = 0 }, "budget"},
		{"negative budget", func(r *models.LeadRequest) { r.Budget = -100 }, "budget"},
		{"zero travelers", func(r *models.LeadRequest) { r.Travelers = 0 }, "travelers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := ValidateLead(&req)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateLead() unexpected error: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("ValidateLead() error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.wantErr {
				t.Errorf("ValidateLead() field = %q, want %q", ve.Field, tt.wantErr)
			}
		})
	}
}

func TestIsLeadStatus(t *testing.T) {
	for _, s := range []string{"NEW", "CONTACTED", "QUALIFIED", "WON", "LOST"} {
		if !IsLeadStatus(s) {
			t.Errorf("IsLeadStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "new", "ARCHIVED"} {
		if IsLeadStatus(s) {
			t.Errorf("IsLeadStatus(%q) = true, want false", s)
		}
	}
}
