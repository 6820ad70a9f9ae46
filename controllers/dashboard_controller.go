// controllers/dashboard_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tripnest/tripnest_backend/config"
	"github.com/tripnest/tripnest_backend/engine"
	"github.com/tripnest/tripnest_backend/models"
	"github.com/tripnest/tripnest_backend/repositories"
)

// DashboardController serves the tenant and platform dashboards through a
// short-lived redis cache
type DashboardController struct {
	DB    *mongo.Client
	usage *repositories.UsageRepository
	cache *repositories.DashboardCache
}

// NewDashboardController creates a new dashboard controller
func NewDashboardController(db *mongo.Client, cache *repositories.DashboardCache) *DashboardController {
	return &DashboardController{
		DB:    db,
		usage: repositories.NewUsageRepository(db),
		cache: cache,
	}
}

// TenantDashboard is the tenant-scoped dashboard payload
type TenantDashboard struct {
	LeadsByStatus    map[string]int64    `json:"leadsByStatus"`
	PackagesByStatus map[string]int64    `json:"packagesByStatus"`
	TotalLeads       int64               `json:"totalLeads"`
	TotalBookings    int64               `json:"totalBookings"`
	Revenue          float64             `json:"revenue"`
	Outstanding      float64             `json:"outstanding"`
	ConversionRate   float64             `json:"conversionRate"`
	Usage            models.TenantCounts `json:"usage"`
	Limits           *models.PlanLimits  `json:"limits,omitempty"`
	GeneratedAt      time.Time           `json:"generatedAt"`
}

// PlatformDashboard is the platform-admin dashboard payload
type PlatformDashboard struct {
	TotalTenants     int64     `json:"totalTenants"`
	ActiveTenants    int64     `json:"activeTenants"`
	SuspendedTenants int64     `json:"suspendedTenants"`
	TotalPlans       int64     `json:"totalPlans"`
	TotalLeads       int64     `json:"totalLeads"`
	TotalBookings    int64     `json:"totalBookings"`
	GeneratedAt      time.Time `json:"generatedAt"`
}

// countByStatus groups a collection's documents by status
func (dc *DashboardController) countByStatus(ctx context.Context, collection string, match bson.M) (map[string]int64, error) {
	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}
	cursor, err := config.GetCollection(dc.DB, collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := map[string]int64{}
	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row.Count
	}
	return out, nil
}

// sumBookingAmounts aggregates revenue (paid) and outstanding (due) over a
// tenant's non-cancelled bookings
func (dc *DashboardController) sumBookingAmounts(ctx context.Context, tenantID primitive.ObjectID) (revenue, outstanding float64, err error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"tenantId": tenantID,
			"status":   bson.M{"$ne": models.BookingStatusCancelled},
		}},
		{"$group": bson.M{
			"_id":  nil,
			"paid": bson.M{"$sum": "$paidAmount"},
			"due":  bson.M{"$sum": bson.M{"$subtract": []string{"$totalAmount", "$paidAmount"}}},
		}},
	}
	cursor, err := config.GetCollection(dc.DB, "bookings").Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Paid float64 `bson:"paid"`
		Due  float64 `bson:"due"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Paid, rows[0].Due, nil
}

// GetTenantDashboard returns pipeline and revenue aggregates for the
// caller's tenant, cached for a minute
func (dc *DashboardController) GetTenantDashboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}

	key := repositories.TenantKey(tenantID.Hex())
	var cached TenantDashboard
	if dc.cache.Get(ctx, key, &cached) {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Dashboard retrieved successfully",
			Data:    cached,
		})
	}

	leadsByStatus, err := dc.countByStatus(ctx, "leads", bson.M{"tenantId": tenantID})
	if err != nil {
		log.Printf("Error aggregating leads: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build dashboard",
		})
	}

	var totalLeads int64
	for _, n := range leadsByStatus {
		totalLeads += n
	}

	packagesByStatus, err := dc.countByStatus(ctx, "packages", bson.M{"tenantId": tenantID})
	if err != nil {
		log.Printf("Error aggregating packages: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build dashboard",
		})
	}

	totalBookings, err := config.GetCollection(dc.DB, "bookings").
		CountDocuments(ctx, bson.M{"tenantId": tenantID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build dashboard",
		})
	}

	revenue, outstanding, err := dc.sumBookingAmounts(ctx, tenantID)
	if err != nil {
		log.Printf("Error aggregating booking amounts: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build dashboard",
		})
	}

	usage, err := dc.usage.TenantCounts(ctx, tenantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build dashboard",
		})
	}
	limits, err := dc.usage.TenantLimits(ctx, tenantID)
	if err != nil {
		limits = nil
	}

	var conversionRate float64
	if totalLeads > 0 {
		conversionRate = float64(leadsByStatus[models.LeadStatusWon]) / float64(totalLeads)
	}

	dashboard := TenantDashboard{
		LeadsByStatus:    leadsByStatus,
		PackagesByStatus: packagesByStatus,
		TotalLeads:       totalLeads,
		TotalBookings:    totalBookings,
		Revenue:          revenue,
		Outstanding:      outstanding,
		ConversionRate:   conversionRate,
		Usage:            *usage,
		Limits:           limits,
		GeneratedAt:      time.Now(),
	}
	dc.cache.Set(ctx, key, dashboard)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard retrieved successfully",
		Data:    dashboard,
	})
}

// GetPlatformDashboard returns cross-tenant aggregates for platform
// admins, cached for a minute
func (dc *DashboardController) GetPlatformDashboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	key := repositories.PlatformKey()
	var cached PlatformDashboard
	if dc.cache.Get(ctx, key, &cached) {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Dashboard retrieved successfully",
			Data:    cached,
		})
	}

	tenantsByStatus, err := dc.countByStatus(ctx, "tenants", bson.M{})
	if err != nil {
		log.Printf("Error aggregating tenants: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build dashboard",
		})
	}

	totalPlans, err := config.GetCollection(dc.DB, "plans").CountDocuments(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build dashboard",
		})
	}
	totalLeads, err := config.GetCollection(dc.DB, "leads").CountDocuments(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build dashboard",
		})
	}
	totalBookings, err := config.GetCollection(dc.DB, "bookings").CountDocuments(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build dashboard",
		})
	}

	dashboard := PlatformDashboard{
		TotalTenants:     tenantsByStatus[models.TenantStatusActive] + tenantsByStatus[models.TenantStatusSuspended],
		ActiveTenants:    tenantsByStatus[models.TenantStatusActive],
		SuspendedTenants: tenantsByStatus[models.TenantStatusSuspended],
		TotalPlans:       totalPlans,
		TotalLeads:       totalLeads,
		TotalBookings:    totalBookings,
		GeneratedAt:      time.Now(),
	}
	dc.cache.Set(ctx, key, dashboard)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard retrieved successfully",
		Data:    dashboard,
	})
}

// CheckLimit is the advisory pre-check the UI calls before showing a
// create form
func (dc *DashboardController) CheckLimit(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}

	kind := engine.ResourceKind(c.QueryParam("kind"))
	decision, err := dc.usage.CanCreate(ctx, kind, tenantID)
	if err != nil {
		if engine.HTTPStatus(err) != http.StatusInternalServerError {
			return engineErrorResponse(c, err)
		}
		log.Printf("Error checking limit: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check limit",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Limit checked successfully",
		Data:    decision,
	})
}
