// controllers/agent_controller.go
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
)

// AgentController manages a tenant's agent users
type AgentController struct {
	DB    *mongo.Client
	usage *repositories.UsageRepository
}

// NewAgentController creates a new agent controller
func NewAgentController(db *mongo.Client) *AgentController {
	return &AgentController{
		DB:    db,
		usage: repositories.NewUsageRepository(db),
	}
}

// CreateAgent creates an agent user if the tenant is under its plan's
// maxAgents limit. An invite email goes out after the insert.
func (ac *AgentController) CreateAgent(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateAgentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Name, email and a password of at least 8 characters are required",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return engineErrorResponse(c, &engine.ValidationError{Field: "email", Message: "invalid email format"})
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	now := time.Now()
	agent := models.User{
		ID:        primitive.NewObjectID(),
		Name:      utils.SanitizeInput(req.Name),
		Email:     email,
		Password:  hashed,
		Role:      models.RoleAgent,
		TenantID:  &tenantID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := ac.usage.InsertWithinLimit(ctx, engine.KindAgent, tenantID, agent); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return engineErrorResponse(c, &engine.ConflictError{
				Code:    "DUPLICATE",
				Message: "a user with this email already exists",
			})
		}
		if engine.HTTPStatus(err) == http.StatusInternalServerError {
			log.Printf("Error creating agent: %v", err)
		}
		return engineErrorResponse(c, err)
	}

	go func() {
		tctx, tcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer tcancel()
		var tenant models.Tenant
		if err := config.GetCollection(ac.DB, "tenants").FindOne(tctx, bson.M{"_id": tenantID}).Decode(&tenant); err != nil {
			return
		}
		if err := utils.SendAgentInviteEmail(agent.Email, agent.Name, tenant.Name); err != nil {
			log.Printf("Error sending agent invite email: %v", err)
		}
	}()

	agent.Password = ""
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Agent created successfully",
		Data:    agent,
	})
}

// GetAgents lists the tenant's agents. Inactive agents are included; they
// still count against the plan limit.
func (ac *AgentController) GetAgents(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}

	cursor, err := config.GetCollection(ac.DB, "users").Find(ctx,
		bson.M{"tenantId": tenantID, "role": models.RoleAgent},
		options.Find().
			SetProjection(bson.M{"password": 0}).
			SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		log.Printf("Error finding agents: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve agents",
		})
	}
	defer cursor.Close(ctx)

	agents := []models.User{}
	if err := cursor.All(ctx, &agents); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode agents",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Agents retrieved successfully",
		Data:    agents,
	})
}

// SetAgentStatus activates or deactivates an agent. Deactivation only
// blocks sign-in; the seat stays occupied.
func (ac *AgentController) SetAgentStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}
	agentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid agent ID",
		})
	}

	var req models.UpdateAgentStatusRequest
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

	var agent models.User
	err = config.GetCollection(ac.DB, "users").FindOneAndUpdate(ctx,
		bson.M{"_id": agentID, "tenantId": tenantID, "role": models.RoleAgent},
		bson.M{"$set": bson.M{"isActive": *req.IsActive, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"password": 0}),
	).Decode(&agent)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return engineErrorResponse(c, &engine.NotFoundError{Entity: "agent"})
		}
		log.Printf("Error updating agent status: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update agent status",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Agent status updated successfully",
		Data:    agent,
	})
}
