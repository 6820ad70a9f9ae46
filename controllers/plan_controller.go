// controllers/plan_controller.go
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
	"github.com/tripnest/tripnest_backend/utils"
)

// PlanController handles subscription plan management
type PlanController struct {
	DB *mongo.Client
}

// NewPlanController creates a new plan controller
func NewPlanController(db *mongo.Client) *PlanController {
	return &PlanController{DB: db}
}

// CreatePlan creates a plan. Plan codes are unique and immutable.
func (pc *PlanController) CreatePlan(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.PlanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Plan name, code and non-negative limits are required",
		})
	}

	code, err := utils.SanitizePlanCode(req.Code)
	if err != nil {
		return engineErrorResponse(c, &engine.ValidationError{Field: "code", Message: err.Error()})
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now()
	plan := models.Plan{
		ID:       primitive.NewObjectID(),
		Name:     req.Name,
		Code:     code,
		IsActive: isActive,
		Limits: models.PlanLimits{
			MaxAgents:       *req.Limits.MaxAgents,
			MaxDestinations: *req.Limits.MaxDestinations,
			MaxPackages:     *req.Limits.MaxPackages,
			MediaEnabled:    req.Limits.MediaEnabled,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := config.GetCollection(pc.DB, "plans").InsertOne(ctx, plan); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return engineErrorResponse(c, &engine.ConflictError{
				Code:    "DUPLICATE",
				Message: "a plan with this code already exists",
			})
		}
		log.Printf("Error creating plan: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create plan",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Plan created successfully",
		Data:    plan,
	})
}

// GetPlans lists all plans including deactivated ones
func (pc *PlanController) GetPlans(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.GetCollection(pc.DB, "plans").
		Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		log.Printf("Error finding plans: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve plans",
		})
	}
	defer cursor.Close(ctx)

	plans := []models.Plan{}
	if err := cursor.All(ctx, &plans); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode plans",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Plans retrieved successfully",
		Data:    plans,
	})
}

// GetPlan returns one plan by ID
func (pc *PlanController) GetPlan(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid plan ID",
		})
	}

	var plan models.Plan
	err = config.GetCollection(pc.DB, "plans").FindOne(ctx, bson.M{"_id": planID}).Decode(&plan)
	if err != nil {
		return engineErrorResponse(c, &engine.NotFoundError{Entity: "plan"})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Plan retrieved successfully",
		Data:    plan,
	})
}

// UpdatePlan updates a plan's name and limits. Code cannot change; raised
// or lowered limits take effect on the next evaluation, existing resources
// over a lowered limit are kept.
func (pc *PlanController) UpdatePlan(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid plan ID",
		})
	}

	var req models.UpdatePlanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Limits != nil {
		if req.Limits.MaxAgents == nil || req.Limits.MaxDestinations == nil || req.Limits.MaxPackages == nil {
			return engineErrorResponse(c, &engine.ValidationError{Field: "limits", Message: "all limit fields are required"})
		}
		if *req.Limits.MaxAgents < 0 || *req.Limits.MaxDestinations < 0 || *req.Limits.MaxPackages < 0 {
			return engineErrorResponse(c, &engine.ValidationError{Field: "limits", Message: "limits must be non-negative"})
		}
		set["limits"] = models.PlanLimits{
			MaxAgents:       *req.Limits.MaxAgents,
			MaxDestinations: *req.Limits.MaxDestinations,
			MaxPackages:     *req.Limits.MaxPackages,
			MediaEnabled:    req.Limits.MediaEnabled,
		}
	}

	var plan models.Plan
	err = config.GetCollection(pc.DB, "plans").FindOneAndUpdate(ctx,
		bson.M{"_id": planID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&plan)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return engineErrorResponse(c, &engine.NotFoundError{Entity: "plan"})
		}
		log.Printf("Error updating plan: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update plan",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Plan updated successfully",
		Data:    plan,
	})
}

// SetPlanStatus toggles whether a plan can be assigned to tenants.
// Deactivation never touches tenants already on the plan.
func (pc *PlanController) SetPlanStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid plan ID",
		})
	}

	var req models.UpdatePlanStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "isActive is required",
		})
	}

	var plan models.Plan
	err = config.GetCollection(pc.DB, "plans").FindOneAndUpdate(ctx,
		bson.M{"_id": planID},
		bson.M{"$set": bson.M{"isActive": *req.IsActive, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&plan)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return engineErrorResponse(c, &engine.NotFoundError{Entity: "plan"})
		}
		log.Printf("Error updating plan status: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update plan status",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Plan status updated successfully",
		Data:    plan,
	})
}
