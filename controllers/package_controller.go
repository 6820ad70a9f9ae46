// controllers/package_controller.go
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

// PackageController handles the tenant's travel package catalog
type PackageController struct {
	DB    *mongo.Client
	usage *repositories.UsageRepository
}

// NewPackageController creates a new package controller
func NewPackageController(db *mongo.Client) *PackageController {
	return &PackageController{
		DB:    db,
		usage: repositories.NewUsageRepository(db),
	}
}

// packageFromRequest builds the package document, resolving the optional
// destination reference against the tenant
func (pc *PackageController) packageFromRequest(ctx context.Context, tenantID primitive.ObjectID, req *models.PackageRequest) (*models.TravelPackage, error) {
	tagIDs, err := parseTagIDs(req.TagIDs)
	if err != nil {
		return nil, err
	}

	pkg := &models.TravelPackage{
		TenantID:   tenantID,
		Name:       utils.SanitizeInput(req.Name),
		PriceFrom:  req.PriceFrom,
		Days:       req.Days,
		Nights:     req.Nights,
		Status:     req.Status,
		Itinerary:  req.Itinerary,
		Inclusions: req.Inclusions,
		Exclusions: req.Exclusions,
		Media:      req.Media,
		TagIDs:     tagIDs,
	}

	if req.DestinationID != "" {
		destID, err := primitive.ObjectIDFromHex(req.DestinationID)
		if err != nil {
			return nil, &engine.ValidationError{Field: "destinationId", Message: "invalid destination ID"}
		}
		count, err := config.GetCollection(pc.DB, "destinations").
			CountDocuments(ctx, bson.M{"_id": destID, "tenantId": tenantID})
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, &engine.NotFoundError{Entity: "destination"}
		}
		pkg.DestinationID = &destID
	}

	return pkg, nil
}

// CreatePackage creates a package if the tenant is under its plan limit
func (pc *PackageController) CreatePackage(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.PackageRequest
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

	pkg, err := pc.packageFromRequest(ctx, tenantID, &req)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	now := time.Now()
	pkg.ID = primitive.NewObjectID()
	pkg.CreatedAt = now
	pkg.UpdatedAt = now

	if err := pc.usage.InsertWithinLimit(ctx, engine.KindPackage, tenantID, pkg); err != nil {
		if engine.HTTPStatus(err) == http.StatusInternalServerError {
			log.Printf("Error creating package: %v", err)
		}
		return engineErrorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Package created successfully",
		Data:    pkg,
	})
}

// GetPackages lists the tenant's packages, optionally filtered by publish
// status
func (pc *PackageController) GetPackages(c echo.Context) error {
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

	return pc.listPackages(ctx, c, filter)
}

// GetPackagesByDestination lists the tenant's packages for one destination
func (pc *PackageController) GetPackagesByDestination(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}
	destID, err := primitive.ObjectIDFromHex(c.Param("destinationId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid destination ID",
		})
	}

	return pc.listPackages(ctx, c, bson.M{"tenantId": tenantID, "destinationId": destID})
}

func (pc *PackageController) listPackages(ctx context.Context, c echo.Context, filter bson.M) error {
	cursor, err := config.GetCollection(pc.DB, "packages").
		Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		log.Printf("Error finding packages: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve packages",
		})
	}
	defer cursor.Close(ctx)

	packages := []models.TravelPackage{}
	if err := cursor.All(ctx, &packages); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode packages",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Packages retrieved successfully",
		Data:    packages,
	})
}

// GetPackage returns one package
func (pc *PackageController) GetPackage(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}
	pkgID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid package ID",
		})
	}

	var pkg models.TravelPackage
	err = config.GetCollection(pc.DB, "packages").
		FindOne(ctx, bson.M{"_id": pkgID, "tenantId": tenantID}).Decode(&pkg)
	if err != nil {
		return engineErrorResponse(c, &engine.NotFoundError{Entity: "package"})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Package retrieved successfully",
		Data:    pkg,
	})
}

// UpdatePackage updates a package
func (pc *PackageController) UpdatePackage(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}
	pkgID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid package ID",
		})
	}

	var req models.PackageRequest
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

	pkg, err := pc.packageFromRequest(ctx, tenantID, &req)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	var updated models.TravelPackage
	err = config.GetCollection(pc.DB, "packages").FindOneAndUpdate(ctx,
		bson.M{"_id": pkgID, "tenantId": tenantID},
		bson.M{"$set": bson.M{
			"name":          pkg.Name,
			"destinationId": pkg.DestinationID,
			"priceFrom":     pkg.PriceFrom,
			"days":          pkg.Days,
			"nights":        pkg.Nights,
			"status":        pkg.Status,
			"itinerary":     pkg.Itinerary,
			"inclusions":    pkg.Inclusions,
			"exclusions":    pkg.Exclusions,
			"tagIds":        pkg.TagIDs,
			"updatedAt":     time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return engineErrorResponse(c, &engine.NotFoundError{Entity: "package"})
		}
		log.Printf("Error updating package: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update package",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Package updated successfully",
		Data:    updated,
	})
}

// DeletePackage removes a package and detaches it from leads
func (pc *PackageController) DeletePackage(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}
	pkgID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid package ID",
		})
	}

	res, err := config.GetCollection(pc.DB, "packages").
		DeleteOne(ctx, bson.M{"_id": pkgID, "tenantId": tenantID})
	if err != nil {
		log.Printf("Error deleting package: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete package",
		})
	}
	if res.DeletedCount == 0 {
		return engineErrorResponse(c, &engine.NotFoundError{Entity: "package"})
	}

	if _, err := config.GetCollection(pc.DB, "leads").UpdateMany(ctx,
		bson.M{"tenantId": tenantID, "packageId": pkgID},
		bson.M{"$unset": bson.M{"packageId": ""}},
	); err != nil {
		log.Printf("Error detaching package from leads: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Package deleted successfully",
	})
}

// UploadPackageMedia attaches an image to a package, gated on the plan's
// mediaEnabled flag
func (pc *PackageController) UploadPackageMedia(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}
	pkgID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid package ID",
		})
	}

	limits, err := pc.usage.TenantLimits(ctx, tenantID)
	if err != nil {
		log.Printf("Error loading tenant limits: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check plan",
		})
	}
	if decision := engine.CanUploadMedia(limits); !decision.Allowed {
		return engineErrorResponse(c, &engine.LimitError{Kind: engine.KindPackage, Reason: decision.Reason})
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

	url, err := utils.SaveImage(data, file.Filename, "packages")
	if err != nil {
		log.Printf("Error saving package image: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save image",
		})
	}

	res, err := config.GetCollection(pc.DB, "packages").UpdateOne(ctx,
		bson.M{"_id": pkgID, "tenantId": tenantID},
		bson.M{
			"$push": bson.M{"media": url},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		log.Printf("Error attaching package media: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to attach image",
		})
	}
	if res.MatchedCount == 0 {
		return engineErrorResponse(c, &engine.NotFoundError{Entity: "package"})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Image uploaded successfully",
		Data:    map[string]string{"url": url},
	})
}
