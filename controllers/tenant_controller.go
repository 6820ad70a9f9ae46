// controllers/tenant_controller.go
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
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tripnest/tripnest_backend/config"
	"github.com/tripnest/tripnest_backend/engine"
	"github.com/tripnest/tripnest_backend/models"
	"github.com/tripnest/tripnest_backend/repositories"
	"github.com/tripnest/tripnest_backend/utils"
	"github.com/tripnest/tripnest_backend/websocket"
)

// TenantController handles platform-admin tenant management
type TenantController struct {
	DB    *mongo.Client
	usage *repositories.UsageRepository
	audit *repositories.AuditRepository
	cache *repositories.DashboardCache
	hub   *websocket.Hub
}

// NewTenantController creates a new tenant controller
func NewTenantController(db *mongo.Client, cache *repositories.DashboardCache, hub *websocket.Hub) *TenantController {
	return &TenantController{
		DB:    db,
		usage: repositories.NewUsageRepository(db),
		audit: repositories.NewAuditRepository(db),
		cache: cache,
		hub:   hub,
	}
}

// CreateTenant provisions a tenant together with its admin user, and
// optionally assigns an initial plan. Tenant and admin are created in one
// transaction.
func (tc *TenantController) CreateTenant(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.CreateTenantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Tenant name, slug and admin credentials are required",
		})
	}

	slug, err := utils.SanitizeSlug(req.Slug)
	if err != nil {
		return engineErrorResponse(c, &engine.ValidationError{Field: "slug", Message: err.Error()})
	}
	adminEmail, err := utils.SanitizeEmail(req.AdminEmail)
	if err != nil {
		return engineErrorResponse(c, &engine.ValidationError{Field: "adminEmail", Message: "invalid email format"})
	}

	var planID *primitive.ObjectID
	if req.PlanID != "" {
		id, err := primitive.ObjectIDFromHex(req.PlanID)
		if err != nil {
			return engineErrorResponse(c, &engine.ValidationError{Field: "planId", Message: "invalid plan ID"})
		}

		var plan models.Plan
		err = config.GetCollection(tc.DB, "plans").FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
		if err != nil {
			return engineErrorResponse(c, &engine.NotFoundError{Entity: "plan"})
		}
		if !plan.IsActive {
			return engineErrorResponse(c, &engine.ConflictError{
				Code:    "PLAN_INACTIVE",
				Message: "deactivated plans cannot be assigned to new tenants",
			})
		}
		planID = &id
	}

	hashed, err := utils.HashPassword(req.AdminPassword)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	now := time.Now()
	tenant := models.Tenant{
		ID:        primitive.NewObjectID(),
		Name:      req.TenantName,
		Slug:      slug,
		Status:    models.TenantStatusActive,
		Color:     req.Color,
		Logo:      req.Logo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	admin := models.User{
		ID:        primitive.NewObjectID(),
		Name:      req.AdminName,
		Email:     adminEmail,
		Password:  hashed,
		Role:      models.RoleTenantAdmin,
		TenantID:  &tenant.ID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	session, err := tc.DB.StartSession()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to start transaction",
		})
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := config.GetCollection(tc.DB, "tenants").InsertOne(sc, tenant); err != nil {
			return nil, err
		}
		if _, err := config.GetCollection(tc.DB, "users").InsertOne(sc, admin); err != nil {
			return nil, err
		}
		if planID != nil {
			sub := models.Subscription{
				ID:         primitive.NewObjectID(),
				TenantID:   tenant.ID,
				PlanID:     *planID,
				Status:     models.SubscriptionStatusActive,
				AssignedAt: now,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if _, err := config.GetCollection(tc.DB, "subscriptions").InsertOne(sc, sub); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return engineErrorResponse(c, &engine.ConflictError{
				Code:    "DUPLICATE",
				Message: "a tenant with this slug or a user with this email already exists",
			})
		}
		log.Printf("Error creating tenant: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create tenant",
		})
	}

	tc.cache.Invalidate(ctx, repositories.PlatformKey())

	admin.Password = ""
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Tenant created successfully",
		Data: map[string]interface{}{
			"tenant": tenant,
			"admin":  admin,
		},
	})
}

// GetTenants lists all tenants, newest first
func (tc *TenantController) GetTenants(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.GetCollection(tc.DB, "tenants").
		Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		log.Printf("Error finding tenants: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve tenants",
		})
	}
	defer cursor.Close(ctx)

	tenants := []models.Tenant{}
	if err := cursor.All(ctx, &tenants); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode tenants",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Tenants retrieved successfully",
		Data:    tenants,
	})
}

// GetTenant returns one tenant with its admins, subscription and usage
// counts
func (tc *TenantController) GetTenant(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid tenant ID",
		})
	}

	var tenant models.Tenant
	err = config.GetCollection(tc.DB, "tenants").FindOne(ctx, bson.M{"_id": tenantID}).Decode(&tenant)
	if err != nil {
		return engineErrorResponse(c, &engine.NotFoundError{Entity: "tenant"})
	}

	details := models.TenantDetails{Tenant: tenant}

	adminCursor, err := config.GetCollection(tc.DB, "users").Find(ctx,
		bson.M{"tenantId": tenantID, "role": models.RoleTenantAdmin},
		options.Find().SetProjection(bson.M{"password": 0}),
	)
	if err == nil {
		defer adminCursor.Close(ctx)
		adminCursor.All(ctx, &details.Admins)
	}

	var sub models.Subscription
	if err := config.GetCollection(tc.DB, "subscriptions").FindOne(ctx, bson.M{"tenantId": tenantID}).Decode(&sub); err == nil {
		var plan models.Plan
		if err := config.GetCollection(tc.DB, "plans").FindOne(ctx, bson.M{"_id": sub.PlanID}).Decode(&plan); err == nil {
			details.Subscription = &models.SubscriptionDetails{
				ID:     sub.ID,
				Status: sub.Status,
				Plan:   plan,
			}
		}
	}

	counts, err := tc.usage.TenantCounts(ctx, tenantID)
	if err != nil {
		log.Printf("Error counting tenant resources: %v", err)
	} else {
		details.Counts = *counts
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Tenant retrieved successfully",
		Data:    details,
	})
}

// SetTenantStatus flips a tenant between ACTIVE and SUSPENDED. Setting
// the current status again succeeds without effect. Data is retained
// either way; the middleware gate enforces the suspension.
func (tc *TenantController) SetTenantStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid tenant ID",
		})
	}

	var req models.UpdateTenantStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := engine.ValidateTenantStatus(req.Status); err != nil {
		return engineErrorResponse(c, err)
	}

	var tenant models.Tenant
	err = config.GetCollection(tc.DB, "tenants").FindOneAndUpdate(ctx,
		bson.M{"_id": tenantID},
		bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&tenant)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return engineErrorResponse(c, &engine.NotFoundError{Entity: "tenant"})
		}
		log.Printf("Error updating tenant status: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update tenant status",
		})
	}

	actorID, claims, aerr := actorFromContext(c)
	if aerr == nil {
		tc.audit.Record(ctx, models.AuditLog{
			TenantID:   &tenantID,
			EntityType: models.AuditEntityTenant,
			EntityID:   tenantID,
			Action:     models.AuditActionTenantStatus,
			ActorID:    &actorID,
			ActorName:  claims.Email,
			Metadata:   bson.M{"status": req.Status},
		})
	}

	tc.cache.Invalidate(ctx, repositories.TenantKey(tenantID.Hex()), repositories.PlatformKey())
	tc.hub.BroadcastToTenant(tenantID, websocket.Event{
		Type:    websocket.EventTenantStatus,
		Message: "Tenant status changed to " + req.Status,
		Data:    tenant,
	})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Tenant status updated successfully",
		Data:    tenant,
	})
}
