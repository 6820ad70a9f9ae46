// engine/tenant.go
package engine

import (
	"github.com/tripnest/tripnest_backend/models"
)

// ValidateTenantStatus checks a tenant status flip. ACTIVE and SUSPENDED
// are the only states; setting the current status again is an idempotent
// no-op, not an error.
func ValidateTenantStatus(next string) error {
	if next != models.TenantStatusActive && next != models.TenantStatusSuspended {
		return &ValidationError{Field: "status", Message: "status must be ACTIVE or SUSPENDED"}
	}
	return nil
}
