// controllers/lead_controller.go
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

// LeadController handles the lead pipeline for tenant users
type LeadController struct {
	DB    *mongo.Client
	leads *repositories.LeadRepository
	audit *repositories.AuditRepository
	cache *repositories.DashboardCache
	hub   *websocket.Hub
}

// NewLeadController creates a new lead controller
func NewLeadController(db *mongo.Client, cache *repositories.DashboardCache, hub *websocket.Hub) *LeadController {
	return &LeadController{
		DB:    db,
		leads: repositories.NewLeadRepository(db),
		audit: repositories.NewAuditRepository(db),
		cache: cache,
		hub:   hub,
	}
}

// leadFromRequest builds the lead document from a validated request,
// resolving the optional references against the tenant
func (lc *LeadController) leadFromRequest(ctx context.Context, tenantID primitive.ObjectID, req *models.LeadRequest) (*models.Lead, error) {
	phone, err := utils.SanitizePhone(req.Phone)
	if err != nil {
		return nil, &engine.ValidationError{Field: "phone", Message: err.Error()}
	}

	travelDate, err := time.Parse("2006-01-02", req.TravelDate)
	if err != nil {
		return nil, &engine.ValidationError{Field: "travelDate", Message: "travel date must be YYYY-MM-DD"}
	}

	lead := &models.Lead{
		TenantID:   tenantID,
		Name:       utils.SanitizeInput(req.Name),
		Phone:      phone,
		TravelDate: travelDate,
		Travelers:  req.Travelers,
		Budget:     req.Budget,
		Source:     req.Source,
		Notes:      utils.SanitizeInput(req.Notes),
	}

	if req.Email != "" {
		email, err := utils.SanitizeEmail(req.Email)
		if err != nil {
			return nil, &engine.ValidationError{Field: "email", Message: "invalid email format"}
		}
		lead.Email = email
	}

	if req.AssignedToID != "" {
		agentID, err := primitive.ObjectIDFromHex(req.AssignedToID)
		if err != nil {
			return nil, &engine.ValidationError{Field: "assignedToId", Message: "invalid agent ID"}
		}
		// Assignment requires an active agent of this tenant
		count, err := config.GetCollection(lc.DB, "users").CountDocuments(ctx, bson.M{
			"_id":      agentID,
			"tenantId": tenantID,
			"role":     models.RoleAgent,
			"isActive": true,
		})
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, &engine.NotFoundError{Entity: "agent"}
		}
		lead.AssignedToID = &agentID
	}

	if req.DestinationID != "" {
		id, err := primitive.ObjectIDFromHex(req.DestinationID)
		if err != nil {
			return nil, &engine.ValidationError{Field: "destinationId", Message: "invalid destination ID"}
		}
		lead.DestinationID = &id
	}
	if req.PackageID != "" {
		id, err := primitive.ObjectIDFromHex(req.PackageID)
		if err != nil {
			return nil, &engine.ValidationError{Field: "packageId", Message: "invalid package ID"}
		}
		lead.PackageID = &id
	}

	return lead, nil
}

// CreateLead creates a lead in status NEW. Leads are never blocked by plan
// limits.
func (lc *LeadController) CreateLead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.LeadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := engine.ValidateLead(&req); err != nil {
		return engineErrorResponse(c, err)
	}

	lead, err := lc.leadFromRequest(ctx, tenantID, &req)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	now := time.Now()
	lead.ID = primitive.NewObjectID()
	lead.Status = models.LeadStatusNew
	lead.CreatedAt = now
	lead.UpdatedAt = now

	if _, err := config.GetCollection(lc.DB, "leads").InsertOne(ctx, lead); err != nil {
		log.Printf("Error creating lead: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create lead",
		})
	}

	actorID, claims, aerr := actorFromContext(c)
	if aerr == nil {
		lc.audit.Record(ctx, models.AuditLog{
			TenantID:   &tenantID,
			EntityType: models.AuditEntityLead,
			EntityID:   lead.ID,
			Action:     models.AuditActionLeadCreated,
			ActorID:    &actorID,
			ActorName:  claims.Email,
		})
	}

	lc.cache.Invalidate(ctx, repositories.TenantKey(tenantID.Hex()), repositories.PlatformKey())
	lc.hub.BroadcastToTenant(tenantID, websocket.Event{
		Type:    websocket.EventLeadCreated,
		Message: "New lead: " + lead.Name,
		Data:    lead,
	})

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Lead created successfully",
		Data:    lead,
	})
}

// GetLeads lists the tenant's leads, optionally filtered by status,
// source or assigned agent
func (lc *LeadController) GetLeads(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}

	filter := bson.M{"tenantId": tenantID}
	if status := c.QueryParam("status"); status != "" {
		if !engine.IsLeadStatus(status) {
			return engineErrorResponse(c, &engine.ValidationError{Field: "status", Message: "unknown lead status " + status})
		}
		filter["status"] = status
	}
	if source := c.QueryParam("source"); source != "" {
		filter["source"] = source
	}
	if assignedTo := c.QueryParam("assignedTo"); assignedTo != "" {
		agentID, err := primitive.ObjectIDFromHex(assignedTo)
		if err != nil {
			return engineErrorResponse(c, &engine.ValidationError{Field: "assignedTo", Message: "invalid agent ID"})
		}
		filter["assignedToId"] = agentID
	}

	cursor, err := config.GetCollection(lc.DB, "leads").
		Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		log.Printf("Error finding leads: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve leads",
		})
	}
	defer cursor.Close(ctx)

	leads := []models.Lead{}
	if err := cursor.All(ctx, &leads); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode leads",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Leads retrieved successfully",
		Data:    leads,
	})
}

// GetLead returns one lead
func (lc *LeadController) GetLead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}
	leadID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid lead ID",
		})
	}

	lead, err := lc.leads.FindByID(ctx, tenantID, leadID)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Lead retrieved successfully",
		Data:    lead,
	})
}

// SearchLeads is the advisory duplicate check by phone number. Matching
// compares digit sequences, so separators and country prefixes in either
// the query or the stored number do not hide a match.
func (lc *LeadController) SearchLeads(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}

	phone := c.QueryParam("phone")
	if phone == "" {
		return engineErrorResponse(c, &engine.ValidationError{Field: "phone", Message: "phone query parameter is required"})
	}

	leads, err := lc.leads.FindByPhone(ctx, tenantID, phone)
	if err != nil {
		log.Printf("Error searching leads: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to search leads",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Leads retrieved successfully",
		Data:    leads,
	})
}

// UpdateLead updates a lead's details. Status changes go through
// UpdateLeadStatus; converted leads are read-only.
func (lc *LeadController) UpdateLead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}
	leadID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid lead ID",
		})
	}

	existing, err := lc.leads.FindByID(ctx, tenantID, leadID)
	if err != nil {
		return engineErrorResponse(c, err)
	}
	if existing.Status == models.LeadStatusWon {
		return engineErrorResponse(c, &engine.ConflictError{
			Code:    engine.CodeLeadAlreadyConverted,
			Message: "converted leads cannot be edited",
		})
	}

	var req models.LeadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := engine.ValidateLead(&req); err != nil {
		return engineErrorResponse(c, err)
	}

	lead, err := lc.leadFromRequest(ctx, tenantID, &req)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	set := bson.M{
		"name":          lead.Name,
		"phone":         lead.Phone,
		"email":         lead.Email,
		"travelDate":    lead.TravelDate,
		"travelers":     lead.Travelers,
		"budget":        lead.Budget,
		"source":        lead.Source,
		"notes":         lead.Notes,
		"assignedToId":  lead.AssignedToID,
		"destinationId": lead.DestinationID,
		"packageId":     lead.PackageID,
		"updatedAt":     time.Now(),
	}

	var updated models.Lead
	err = config.GetCollection(lc.DB, "leads").FindOneAndUpdate(ctx,
		bson.M{"_id": leadID, "tenantId": tenantID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		log.Printf("Error updating lead: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update lead",
		})
	}

	actorID, claims, aerr := actorFromContext(c)
	if aerr == nil {
		lc.audit.Record(ctx, models.AuditLog{
			TenantID:   &tenantID,
			EntityType: models.AuditEntityLead,
			EntityID:   leadID,
			Action:     models.AuditActionLeadUpdated,
			ActorID:    &actorID,
			ActorName:  claims.Email,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Lead updated successfully",
		Data:    updated,
	})
}

// UpdateLeadStatus moves a lead through the pipeline. WON cannot be set
// here and a WON lead cannot leave it; LOST leads may reopen.
func (lc *LeadController) UpdateLeadStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}
	leadID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid lead ID",
		})
	}

	var req models.UpdateLeadStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	lead, err := lc.leads.FindByID(ctx, tenantID, leadID)
	if err != nil {
		return engineErrorResponse(c, err)
	}
	if err := engine.CanTransitionLead(lead.Status, req.Status); err != nil {
		return engineErrorResponse(c, err)
	}

	var updated models.Lead
	err = config.GetCollection(lc.DB, "leads").FindOneAndUpdate(ctx,
		// Re-check WON in the filter so a conversion landing between the
		// read and this write cannot be overwritten
		bson.M{"_id": leadID, "tenantId": tenantID, "status": bson.M{"$ne": models.LeadStatusWon}},
		bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return engineErrorResponse(c, &engine.ConflictError{
				Code:    engine.CodeLeadAlreadyConverted,
				Message: "lead is already converted and its status is final",
			})
		}
		log.Printf("Error updating lead status: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update lead status",
		})
	}

	actorID, claims, aerr := actorFromContext(c)
	if aerr == nil {
		lc.audit.Record(ctx, models.AuditLog{
			TenantID:   &tenantID,
			EntityType: models.AuditEntityLead,
			EntityID:   leadID,
			Action:     models.AuditActionLeadStatusChange,
			ActorID:    &actorID,
			ActorName:  claims.Email,
			Metadata:   bson.M{"from": lead.Status, "to": req.Status},
		})
	}

	lc.cache.Invalidate(ctx, repositories.TenantKey(tenantID.Hex()), repositories.PlatformKey())
	lc.hub.BroadcastToTenant(tenantID, websocket.Event{
		Type:    websocket.EventLeadStatusChanged,
		Message: "Lead " + updated.Name + " moved to " + req.Status,
		Data:    updated,
	})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Lead status updated successfully",
		Data:    updated,
	})
}

// ConvertLead turns a lead into a booking. The lead moves to WON and the
// booking is created atomically; converting twice fails with a conflict.
func (lc *LeadController) ConvertLead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}
	leadID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid lead ID",
		})
	}

	var req models.ConvertLeadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	actorID, claims, aerr := actorFromContext(c)
	if aerr != nil {
		return aerr
	}

	booking, err := lc.leads.Convert(ctx, tenantID, leadID, actorID, claims.Email, &req)
	if err != nil {
		if engine.HTTPStatus(err) == http.StatusInternalServerError {
			log.Printf("Error converting lead %s: %v", leadID.Hex(), err)
		}
		return engineErrorResponse(c, err)
	}

	lc.cache.Invalidate(ctx, repositories.TenantKey(tenantID.Hex()), repositories.PlatformKey())
	lc.hub.BroadcastToTenant(tenantID, websocket.Event{
		Type:    websocket.EventLeadConverted,
		Message: "Lead converted to booking",
		Data:    booking,
	})

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Lead converted successfully",
		Data:    booking,
	})
}

// GetLeadAuditLogs returns the newest-first audit trail of one lead
func (lc *LeadController) GetLeadAuditLogs(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}
	leadID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid lead ID",
		})
	}

	// Scope check before exposing the trail
	if _, err := lc.leads.FindByID(ctx, tenantID, leadID); err != nil {
		return engineErrorResponse(c, err)
	}

	logs, err := lc.audit.ListForEntity(ctx, models.AuditEntityLead, leadID)
	if err != nil {
		log.Printf("Error listing lead audit logs: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve audit logs",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Audit logs retrieved successfully",
		Data:    logs,
	})
}
