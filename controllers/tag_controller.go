// controllers/tag_controller.go
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

// TagController handles tenant-scoped catalog tags
type TagController struct {
	DB *mongo.Client
}

// NewTagController creates a new tag controller
func NewTagController(db *mongo.Client) *TagController {
	return &TagController{DB: db}
}

// CreateTag creates a tag; names are unique per tenant
func (tc *TagController) CreateTag(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.TagRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Tag name is required (max 40 characters)",
		})
	}

	now := time.Now()
	tag := models.Tag{
		ID:        primitive.NewObjectID(),
		TenantID:  tenantID,
		Name:      utils.SanitizeInput(req.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := config.GetCollection(tc.DB, "tags").InsertOne(ctx, tag); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return engineErrorResponse(c, &engine.ConflictError{
				Code:    "DUPLICATE",
				Message: "a tag with this name already exists",
			})
		}
		log.Printf("Error creating tag: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create tag",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Tag created successfully",
		Data:    tag,
	})
}

// GetTags lists the tenant's tags alphabetically
func (tc *TagController) GetTags(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}

	cursor, err := config.GetCollection(tc.DB, "tags").
		Find(ctx, bson.M{"tenantId": tenantID}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		log.Printf("Error finding tags: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve tags",
		})
	}
	defer cursor.Close(ctx)

	tags := []models.Tag{}
	if err := cursor.All(ctx, &tags); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode tags",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Tags retrieved successfully",
		Data:    tags,
	})
}

// UpdateTag renames a tag
func (tc *TagController) UpdateTag(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}
	tagID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid tag ID",
		})
	}

	var req models.TagRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Tag name is required (max 40 characters)",
		})
	}

	var tag models.Tag
	err = config.GetCollection(tc.DB, "tags").FindOneAndUpdate(ctx,
		bson.M{"_id": tagID, "tenantId": tenantID},
		bson.M{"$set": bson.M{"name": utils.SanitizeInput(req.Name), "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&tag)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return engineErrorResponse(c, &engine.NotFoundError{Entity: "tag"})
		}
		if mongo.IsDuplicateKeyError(err) {
			return engineErrorResponse(c, &engine.ConflictError{
				Code:    "DUPLICATE",
				Message: "a tag with this name already exists",
			})
		}
		log.Printf("Error updating tag: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update tag",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Tag updated successfully",
		Data:    tag,
	})
}

// DeleteTag removes a tag and detaches it from destinations and packages
func (tc *TagController) DeleteTag(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}
	tagID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid tag ID",
		})
	}

	res, err := config.GetCollection(tc.DB, "tags").
		DeleteOne(ctx, bson.M{"_id": tagID, "tenantId": tenantID})
	if err != nil {
		log.Printf("Error deleting tag: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete tag",
		})
	}
	if res.DeletedCount == 0 {
		return engineErrorResponse(c, &engine.NotFoundError{Entity: "tag"})
	}

	pull := bson.M{"$pull": bson.M{"tagIds": tagID}}
	if _, err := config.GetCollection(tc.DB, "destinations").UpdateMany(ctx, bson.M{"tenantId": tenantID}, pull); err != nil {
		log.Printf("Error detaching tag from destinations: %v", err)
	}
	if _, err := config.GetCollection(tc.DB, "packages").UpdateMany(ctx, bson.M{"tenantId": tenantID}, pull); err != nil {
		log.Printf("Error detaching tag from packages: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Tag deleted successfully",
	})
}
