package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tripnest/tripnest_backend/controllers"
	"github.com/tripnest/tripnest_backend/middleware"
	"github.com/tripnest/tripnest_backend/repositories"
	"github.com/tripnest/tripnest_backend/websocket"
)

// RegisterPlatformRoutes sets up the platform-admin routes: tenant
// provisioning and suspension, plan management and plan assignment
func RegisterPlatformRoutes(e *echo.Echo, db *mongo.Client, cache *repositories.DashboardCache, hub *websocket.Hub) {
	tenantController := controllers.NewTenantController(db, cache, hub)
	planController := controllers.NewPlanController(db)
	subscriptionController := controllers.NewSubscriptionController(db, cache)
	dashboardController := controllers.NewDashboardController(db, cache)

	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	// Tenant management
	tenants := r.Group("/tenants", middleware.RequireCapability(middleware.ActionManageTenants))
	tenants.POST("", tenantController.CreateTenant)
	tenants.GET("", tenantController.GetTenants)
	tenants.GET("/:id", tenantController.GetTenant)
	tenants.PATCH("/:id/status", tenantController.SetTenantStatus)

	// Plan management
	plans := r.Group("/plans", middleware.RequireCapability(middleware.ActionManagePlans))
	plans.POST("", planController.CreatePlan)
	plans.GET("", planController.GetPlans)
	plans.GET("/:id", planController.GetPlan)
	plans.PUT("/:id", planController.UpdatePlan)
	plans.PATCH("/:id/status", planController.SetPlanStatus)

	// Plan assignment
	subs := r.Group("/subscriptions", middleware.RequireCapability(middleware.ActionManagePlans))
	subs.POST("/assign", subscriptionController.AssignSubscription)
	subs.GET("/:tenantId", subscriptionController.GetSubscription)

	// Platform dashboard
	r.GET("/platform/dashboard", dashboardController.GetPlatformDashboard,
		middleware.RequireCapability(middleware.ActionViewPlatform))
}
