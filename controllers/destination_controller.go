// controllers/destination_controller.go
package controllers

import (
	"context"
	"io"
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

// DestinationController handles the tenant's destination catalog
type DestinationController struct {
	DB    *mongo.Client
	usage *repositories.UsageRepository
}

// NewDestinationController creates a new destination controller
func NewDestinationController(db *mongo.Client) *DestinationController {
	return &DestinationController{
		DB:    db,
		usage: repositories.NewUsageRepository(db),
	}
}

func parseTagIDs(raw []string) ([]primitive.ObjectID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, &engine.ValidationError{Field: "tagIds", Message: "invalid tag ID " + s}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// CreateDestination creates a destination if the tenant is under its plan
// limit. The count re-runs inside the insert transaction so concurrent
// creates cannot slip past the limit.
func (dc *DestinationController) CreateDestination(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.DestinationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Name and a DRAFT or PUBLISHED status are required",
		})
	}

	tagIDs, err := parseTagIDs(req.TagIDs)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	now := time.Now()
	dest := models.Destination{
		ID:          primitive.NewObjectID(),
		TenantID:    tenantID,
		Name:        utils.SanitizeInput(req.Name),
		Country:     utils.SanitizeInput(req.Country),
		Description: utils.SanitizeInput(req.Description),
		Status:      req.Status,
		Media:       req.Media,
		TagIDs:      tagIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := dc.usage.InsertWithinLimit(ctx, engine.KindDestination, tenantID, dest); err != nil {
		if engine.HTTPStatus(err) == http.StatusInternalServerError {
			log.Printf("Error creating destination: %v", err)
		}
		return engineErrorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Destination created successfully",
		Data:    dest,
	})
}

// GetDestinations lists the tenant's destinations, optionally filtered by
// publish status
func (dc *DestinationController) GetDestinations(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}

	filter := bson.M{"tenantId": tenantID}
	if status := c.QueryParam("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := config.GetCollection(dc.DB, "destinations").
		Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		log.Printf("Error finding destinations: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve destinations",
		})
	}
	defer cursor.Close(ctx)

	destinations := []models.Destination{}
	if err := cursor.All(ctx, &destinations); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode destinations",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Destinations retrieved successfully",
		Data:    destinations,
	})
}

// GetDestination returns one destination
func (dc *DestinationController) GetDestination(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}
	destID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid destination ID",
		})
	}

	var dest models.Destination
	err = config.GetCollection(dc.DB, "destinations").
		FindOne(ctx, bson.M{"_id": destID, "tenantId": tenantID}).Decode(&dest)
	if err != nil {
		return engineErrorResponse(c, &engine.NotFoundError{Entity: "destination"})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Destination retrieved successfully",
		Data:    dest,
	})
}

// UpdateDestination updates a destination. Updates never hit the plan
// limit; only creation counts.
func (dc *DestinationController) UpdateDestination(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}
	destID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid destination ID",
		})
	}

	var req models.DestinationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Name and a DRAFT or PUBLISHED status are required",
		})
	}

	tagIDs, err := parseTagIDs(req.TagIDs)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	var dest models.Destination
	err = config.GetCollection(dc.DB, "destinations").FindOneAndUpdate(ctx,
		bson.M{"_id": destID, "tenantId": tenantID},
		bson.M{"$set": bson.M{
			"name":        utils.SanitizeInput(req.Name),
			"country":     utils.SanitizeInput(req.Country),
			"description": utils.SanitizeInput(req.Description),
			"status":      req.Status,
			"tagIds":      tagIDs,
			"updatedAt":   time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&dest)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return engineErrorResponse(c, &engine.NotFoundError{Entity: "destination"})
		}
		log.Printf("Error updating destination: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update destination",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Destination updated successfully",
		Data:    dest,
	})
}

// DeleteDestination removes a destination and detaches it from packages
// and leads. The freed slot counts on the next limit evaluation.
func (dc *DestinationController) DeleteDestination(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}
	destID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid destination ID",
		})
	}

	res, err := config.GetCollection(dc.DB, "destinations").
		DeleteOne(ctx, bson.M{"_id": destID, "tenantId": tenantID})
	if err != nil {
		log.Printf("Error deleting destination: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete destination",
		})
	}
	if res.DeletedCount == 0 {
		return engineErrorResponse(c, &engine.NotFoundError{Entity: "destination"})
	}

	unset := bson.M{"$unset": bson.M{"destinationId": ""}}
	if _, err := config.GetCollection(dc.DB, "packages").
		UpdateMany(ctx, bson.M{"tenantId": tenantID, "destinationId": destID}, unset); err != nil {
		log.Printf("Error detaching destination from packages: %v", err)
	}
	if _, err := config.GetCollection(dc.DB, "leads").
		UpdateMany(ctx, bson.M{"tenantId": tenantID, "destinationId": destID}, unset); err != nil {
		log.Printf("Error detaching destination from leads: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Destination deleted successfully",
	})
}

// UploadDestinationMedia attaches an image to a destination. Uploads are
// gated on the plan's mediaEnabled flag.
func (dc *DestinationController) UploadDestinationMedia(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}
	destID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid destination ID",
		})
	}

	limits, err := dc.usage.TenantLimits(ctx, tenantID)
	if err != nil {
		log.Printf("Error loading tenant limits: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check plan",
		})
	}
	if decision := engine.CanUploadMedia(limits); !decision.Allowed {
		return engineErrorResponse(c, &engine.LimitError{Kind: engine.KindDestination, Reason: decision.Reason})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Image file is required",
		})
	}
	if err := utils.ValidateImageFile(file.Filename, file.Size); err != nil {
		return engineErrorResponse(c, &engine.ValidationError{Field: "image", Message: err.Error()})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read image",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read image",
		})
	}

	url, err := utils.SaveImage(data, file.Filename, "destinations")
	if err != nil {
		log.Printf("Error saving destination image: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save image",
		})
	}

	res, err := config.GetCollection(dc.DB, "destinations").UpdateOne(ctx,
		bson.M{"_id": destID, "tenantId": tenantID},
		bson.M{
			"$push": bson.M{"media": url},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		log.Printf("Error attaching destination media: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to attach image",
		})
	}
	if res.MatchedCount == 0 {
		return engineErrorResponse(c, &engine.NotFoundError{Entity: "destination"})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Image uploaded successfully",
		Data:    map[string]string{"url": url},
	})
}
