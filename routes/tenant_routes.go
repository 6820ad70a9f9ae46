package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tripnest/tripnest_backend/controllers"
	"github.com/tripnest/tripnest_backend/middleware"
	"github.com/tripnest/tripnest_backend/models"
	"github.com/tripnest/tripnest_backend/repositories"
	"github.com/tripnest/tripnest_backend/websocket"
)

// RegisterTenantRoutes sets up the tenant-scoped CRM routes. Every route
// in this group is blocked while the caller's tenant is suspended.
func RegisterTenantRoutes(e *echo.Echo, db *mongo.Client, cache *repositories.DashboardCache, hub *websocket.Hub) {
	leadController := controllers.NewLeadController(db, cache, hub)
	bookingController := controllers.NewBookingController(db, cache, hub)
	destinationController := controllers.NewDestinationController(db)
	packageController := controllers.NewPackageController(db)
	agentController := controllers.NewAgentController(db)
	tagController := controllers.NewTagController(db)
	dashboardController := controllers.NewDashboardController(db, cache)

	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())
	r.Use(middleware.ActivityTracker(db))
	r.Use(middleware.RequireActiveTenant(db))

	// Lead pipeline
	leads := r.Group("/leads")
	leads.POST("", leadController.CreateLead, middleware.RequireCapability(middleware.ActionManageLeads))
	leads.GET("", leadController.GetLeads, middleware.RequireCapability(middleware.ActionViewLeads))
	leads.GET("/search", leadController.SearchLeads, middleware.RequireCapability(middleware.ActionViewLeads))
	leads.GET("/:id", leadController.GetLead, middleware.RequireCapability(middleware.ActionViewLeads))
	leads.PUT("/:id", leadController.UpdateLead, middleware.RequireCapability(middleware.ActionManageLeads))
	leads.PATCH("/:id/status", leadController.UpdateLeadStatus, middleware.RequireCapability(middleware.ActionManageLeads))
	leads.POST("/:id/convert", leadController.ConvertLead, middleware.RequireCapability(middleware.ActionConvertLeads))
	leads.GET("/:id/audit-logs", leadController.GetLeadAuditLogs, middleware.RequireCapability(middleware.ActionViewLeads))

	// Bookings
	bookings := r.Group("/bookings")
	bookings.GET("", bookingController.GetBookings, middleware.RequireCapability(middleware.ActionViewBookings))
	bookings.GET("/:id", bookingController.GetBooking, middleware.RequireCapability(middleware.ActionViewBookings))
	bookings.PUT("/:id", bookingController.UpdateBooking, middleware.RequireCapability(middleware.ActionManageBookings))
	bookings.PATCH("/:id/status", bookingController.UpdateBookingStatus, middleware.RequireCapability(middleware.ActionManageBookings))
	bookings.GET("/:id/audit-logs", bookingController.GetBookingAuditLogs, middleware.RequireCapability(middleware.ActionViewBookings))

	// Catalog
	catalog := middleware.RequireCapability(middleware.ActionManageCatalog)
	destinations := r.Group("/destinations")
	destinations.POST("", destinationController.CreateDestination, catalog)
	destinations.GET("", destinationController.GetDestinations, middleware.RequireCapability(middleware.ActionViewLeads))
	destinations.GET("/:id", destinationController.GetDestination, middleware.RequireCapability(middleware.ActionViewLeads))
	destinations.PUT("/:id", destinationController.UpdateDestination, catalog)
	destinations.DELETE("/:id", destinationController.DeleteDestination, catalog)
	destinations.POST("/:id/media", destinationController.UploadDestinationMedia, catalog)

	packages := r.Group("/packages")
	packages.POST("", packageController.CreatePackage, catalog)
	packages.GET("", packageController.GetPackages, middleware.RequireCapability(middleware.ActionViewLeads))
	packages.GET("/by-destination/:destinationId", packageController.GetPackagesByDestination, middleware.RequireCapability(middleware.ActionViewLeads))
	packages.GET("/:id", packageController.GetPackage, middleware.RequireCapability(middleware.ActionViewLeads))
	packages.PUT("/:id", packageController.UpdatePackage, catalog)
	packages.DELETE("/:id", packageController.DeletePackage, catalog)
	packages.POST("/:id/media", packageController.UploadPackageMedia, catalog)

	tags := r.Group("/tags")
	tags.POST("", tagController.CreateTag, catalog)
	tags.GET("", tagController.GetTags, middleware.RequireCapability(middleware.ActionViewLeads))
	tags.PUT("/:id", tagController.UpdateTag, catalog)
	tags.DELETE("/:id", tagController.DeleteTag, catalog)

	// Agent management
	agents := r.Group("/users/agents", middleware.RequireCapability(middleware.ActionManageAgents))
	agents.POST("", agentController.CreateAgent)
	agents.GET("", agentController.GetAgents)
	agents.PATCH("/:id/status", agentController.SetAgentStatus)

	// Tenant dashboard and the advisory limit pre-check
	r.GET("/tenant/dashboard", dashboardController.GetTenantDashboard,
		middleware.RequireCapability(middleware.ActionViewDashboard))
	r.GET("/limits/check", dashboardController.CheckLimit,
		middleware.RequireCapability(middleware.ActionViewDashboard))

	// WebSocket route
	r.GET("/ws", func(c echo.Context) error {
		claims := middleware.GetUserFromToken(c)
		if claims == nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Unauthorized",
			})
		}
		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid user ID",
			})
		}
		tenantID, err := primitive.ObjectIDFromHex(claims.TenantID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid tenant ID",
			})
		}
		return websocket.HandleWebSocket(c, hub, userID, tenantID)
	})
}
