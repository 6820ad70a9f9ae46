// middleware/capability.go
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tripnest/tripnest_backend/config"
	"github.com/tripnest/tripnest_backend/models"
)

// Action names checked at the API boundary. Role conditionals live here in
// one table instead of being re-derived per handler.
const (
	ActionManageTenants  = "tenants:manage"
	ActionManagePlans    = "plans:manage"
	ActionViewLeads      = "leads:view"
	ActionManageLeads    = "leads:manage"
	ActionConvertLeads   = "leads:convert"
	ActionViewBookings   = "bookings:view"
	ActionManageBookings = "bookings:manage"
	ActionManageCatalog  = "catalog:manage" // destinations, packages, tags
	ActionManageAgents   = "agents:manage"
	ActionViewDashboard  = "dashboard:view"
	ActionViewPlatform   = "platform:view"
)

// capabilities maps each role to its permitted actions
var capabilities = map[string]map[string]bool{
	models.RoleSuperAdmin: {
		ActionManageTenants: true,
		ActionManagePlans:   true,
		ActionViewPlatform:  true,
	},
	models.RoleTenantAdmin: {
		ActionViewLeads:      true,
		ActionManageLeads:    true,
		ActionConvertLeads:   true,
		ActionViewBookings:   true,
		ActionManageBookings: true,
		ActionManageCatalog:  true,
		ActionManageAgents:   true,
		ActionViewDashboard:  true,
	},
	models.RoleAgent: {
		ActionViewLeads:     true,
		ActionManageLeads:   true,
		ActionConvertLeads:  true,
		ActionViewBookings:  true,
		ActionViewDashboard: true,
	},
}

// RoleCan reports whether a role is permitted an action
func RoleCan(role, action string) bool {
	actions, ok := capabilities[role]
	if !ok {
		return false
	}
	return actions[action]
}

// RequireCapability rejects requests whose authenticated role lacks the
// given action
func RequireCapability(action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := GetUserFromToken(c)
			if claims == nil {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Authentication required",
				})
			}
			if !RoleCan(claims.Role, action) {
				return c.JSON(http.StatusForbidden, models.Response{
					Status:  http.StatusForbidden,
					Message: "Access denied for your role",
				})
			}
			return next(c)
		}
	}
}

// RequireActiveTenant blocks tenant-scoped requests when the caller's
// tenant is suspended. Suspension keeps all data; this gate is the only
// cascade effect.
func RequireActiveTenant(db *mongo.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := GetUserFromToken(c)
			if claims == nil || claims.TenantID == "" {
				return c.JSON(http.StatusForbidden, models.Response{
					Status:  http.StatusForbidden,
					Message: "Tenant context required",
				})
			}

			tenantID, err := primitive.ObjectIDFromHex(claims.TenantID)
			if err != nil {
				return c.JSON(http.StatusBadRequest, models.Response{
					Status:  http.StatusBadRequest,
					Message: "Invalid tenant ID",
				})
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			var tenant models.Tenant
			err = config.GetCollection(db, "tenants").
				FindOne(ctx, bson.M{"_id": tenantID}).Decode(&tenant)
			if err != nil {
				return c.JSON(http.StatusForbidden, models.Response{
					Status:  http.StatusForbidden,
					Message: "Tenant not found",
				})
			}

			if tenant.Status != models.TenantStatusActive {
				return c.JSON(http.StatusForbidden, models.Response{
					Status:  http.StatusForbidden,
					Message: "Tenant account is suspended",
				})
			}

			c.Set("tenant", &tenant)
			return next(c)
		}
	}
}
