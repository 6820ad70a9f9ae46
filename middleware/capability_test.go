package middleware

import (
	"testing"

	"github.com/tripnest/tripnest_backend/models"
)

func TestRoleCan(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		action string
		want   bool
	}{
		{"super admin manages tenants", models.RoleSuperAdmin, ActionManageTenants, true},
		{"super admin manages plans", models.RoleSuperAdmin, ActionManagePlans, true},
		{"super admin views platform", models.RoleSuperAdmin, ActionViewPlatform, true},
		{"super admin cannot touch leads", models.RoleSuperAdmin, ActionManageLeads, false},
		{"tenant admin manages agents", models.RoleTenantAdmin, ActionManageAgents, true},
		{"tenant admin manages bookings", models.RoleTenantAdmin, ActionManageBookings, true},
		{"tenant admin converts leads", models.RoleTenantAdmin, ActionConvertLeads, true},
		{"tenant admin cannot manage tenants", models.RoleTenantAdmin, ActionManageTenants, false},
		{"tenant admin cannot view platform", models.RoleTenantAdmin, ActionViewPlatform, false},
		{"agent views leads", models.RoleAgent, ActionViewLeads, true},
		{"agent converts leads", models.RoleAgent, ActionConvertLeads, true},
		{"agent views bookings", models.RoleAgent, ActionViewBookings, true},
		{"agent cannot manage bookings", models.RoleAgent, ActionManageBookings, false},
		{"agent cannot manage catalog", models.RoleAgent, ActionManageCatalog, false},
		{"agent cannot manage agents", models.RoleAgent, ActionManageAgents, false},
		{"unknown role", "INTERN", ActionViewLeads, false},
		{"unknown action", models.RoleTenantAdmin, "leads:export", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoleCan(tt.role, tt.action); got != tt.want {
				t.Errorf("RoleCan(%s, %s) = %v, want %v", tt.role, tt.action, got, tt.want)
			}
		})
	}
}
