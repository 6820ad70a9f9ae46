// controllers/subscription_controller.go
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
)

// SubscriptionController assigns plans to tenants
type SubscriptionController struct {
	DB    *mongo.Client
	cache *repositories.DashboardCache
}

// NewSubscriptionController creates a new subscription controller
func NewSubscriptionController(db *mongo.Client, cache *repositories.DashboardCache) *SubscriptionController {
	return &SubscriptionController{DB: db, cache: cache}
}

// AssignSubscription links a tenant to a plan. A tenant holds at most one
// subscription, so reassigning replaces the existing link in place; the
// unique index on tenantId backs the upsert.
func (sc *SubscriptionController) AssignSubscription(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.AssignSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "tenantId and planId are required",
		})
	}

	tenantID, err := primitive.ObjectIDFromHex(req.TenantID)
	if err != nil {
		return engineErrorResponse(c, &engine.ValidationError{Field: "tenantId", Message: "invalid tenant ID"})
	}
	planID, err := primitive.ObjectIDFromHex(req.PlanID)
	if err != nil {
		return engineErrorResponse(c, &engine.ValidationError{Field: "planId", Message: "invalid plan ID"})
	}

	var tenant models.Tenant
	if err := config.GetCollection(sc.DB, "tenants").FindOne(ctx, bson.M{"_id": tenantID}).Decode(&tenant); err != nil {
		return engineErrorResponse(c, &engine.NotFoundError{Entity: "tenant"})
	}

	var plan models.Plan
	if err := config.GetCollection(sc.DB, "plans").FindOne(ctx, bson.M{"_id": planID}).Decode(&plan); err != nil {
		return engineErrorResponse(c, &engine.NotFoundError{Entity: "plan"})
	}
	if !plan.IsActive {
		return engineErrorResponse(c, &engine.ConflictError{
			Code:    "PLAN_INACTIVE",
			Message: "deactivated plans cannot be assigned",
		})
	}

	now := time.Now()
	var sub models.Subscription
	err = config.GetCollection(sc.DB, "subscriptions").FindOneAndUpdate(ctx,
		bson.M{"tenantId": tenantID},
		bson.M{
			"$set": bson.M{
				"planId":     planID,
				"status":     models.SubscriptionStatusActive,
				"assignedAt": now,
				"updatedAt":  now,
			},
			"$setOnInsert": bson.M{"createdAt": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&sub)
	if err != nil {
		log.Printf("Error assigning subscription: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to assign subscription",
		})
	}

	sc.cache.Invalidate(ctx, repositories.TenantKey(tenantID.Hex()), repositories.PlatformKey())

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Subscription assigned successfully",
		Data: map[string]interface{}{
			"subscription": sub,
			"plan":         plan,
		},
	})
}

// GetSubscription returns a tenant's subscription joined with its plan
func (sc *SubscriptionController) GetSubscription(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := primitive.ObjectIDFromHex(c.Param("tenantId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid tenant ID",
		})
	}

	var sub models.Subscription
	err = config.GetCollection(sc.DB, "subscriptions").FindOne(ctx, bson.M{"tenantId": tenantID}).Decode(&sub)
	if err != nil {
		return engineErrorResponse(c, &engine.NotFoundError{Entity: "subscription"})
	}

	var plan models.Plan
	if err := config.GetCollection(sc.DB, "plans").FindOne(ctx, bson.M{"_id": sub.PlanID}).Decode(&plan); err != nil {
		return engineErrorResponse(c, &engine.NotFoundError{Entity: "plan"})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Subscription retrieved successfully",
		Data: models.SubscriptionDetails{
			ID:     sub.ID,
			Status: sub.Status,
			Plan:   plan,
		},
	})
}
