package engine

import (
	"testing"

	"github.com/tripnest/tripnest_backend/models"
)

func TestValidateTenantStatus(t *testing.T) {
	if err := ValidateTenantStatus(models.TenantStatusActive); err != nil {
		t.Errorf("ValidateTenantStatus(ACTIVE) unexpected error: %v", err)
	}
	if err := ValidateTenantStatus(models.TenantStatusSuspended); err != nil {
		t.Errorf("ValidateTenantStatus(SUSPENDED) unexpected error: %v", err)
	}
	for _, s := range []string{"", "active", "DELETED"} {
		if err := ValidateTenantStatus(s); err == nil {
			t.Errorf("ValidateTenantStatus(%q) expected error, got nil", s)
		}
	}
}
