// controllers/booking_controller.go
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
	"github.com/tripnest/tripnest_backend/websocket"
)

// BookingController handles bookings created by lead conversion
type BookingController struct {
	DB    *mongo.Client
	audit *repositories.AuditRepository
	cache *repositories.DashboardCache
	hub   *websocket.Hub
}

// NewBookingController creates a new booking controller
func NewBookingController(db *mongo.Client, cache *repositories.DashboardCache, hub *websocket.Hub) *BookingController {
	return &BookingController{
		DB:    db,
		audit: repositories.NewAuditRepository(db),
		cache: cache,
		hub:   hub,
	}
}

// bookingView decorates a booking with its derived payment label and the
// joined lead/destination/package names
func (bc *BookingController) bookingView(ctx context.Context, b models.Booking) models.BookingView {
	view := models.BookingView{
		Booking:      b,
		PaymentLabel: engine.DerivePaymentLabel(b.TotalAmount, b.PaidAmount),
		DueAmount:    engine.DueAmount(b.TotalAmount, b.PaidAmount),
	}

	var lead models.Lead
	if err := config.GetCollection(bc.DB, "leads").FindOne(ctx, bson.M{"_id": b.LeadID}).Decode(&lead); err == nil {
		view.LeadName = lead.Name
	}
	if b.DestinationID != nil {
		var dest models.Destination
		if err := config.GetCollection(bc.DB, "destinations").FindOne(ctx, bson.M{"_id": *b.DestinationID}).Decode(&dest); err == nil {
			view.Destination = dest.Name
		}
	}
	if b.PackageID != nil {
		var pkg models.TravelPackage
		if err := config.GetCollection(bc.DB, "packages").FindOne(ctx, bson.M{"_id": *b.PackageID}).Decode(&pkg); err == nil {
			view.Package = pkg.Name
		}
	}
	return view
}

// findBooking loads a tenant-scoped booking by path param
func (bc *BookingController) findBooking(ctx context.Context, c echo.Context) (*models.Booking, error) {
	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return nil, err
	}
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return nil, &engine.ValidationError{Field: "id", Message: "invalid booking ID"}
	}

	var booking models.Booking
	err = config.GetCollection(bc.DB, "bookings").
		FindOne(ctx, bson.M{"_id": bookingID, "tenantId": tenantID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &engine.NotFoundError{Entity: "booking"}
		}
		return nil, err
	}
	return &booking, nil
}

// GetBookings lists the tenant's bookings with derived payment labels,
// optionally filtered by status or payment label
func (bc *BookingController) GetBookings(c echo.Context) error {
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

	cursor, err := config.GetCollection(bc.DB, "bookings").
		Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		log.Printf("Error finding bookings: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve bookings",
		})
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode bookings",
		})
	}

	payment := c.QueryParam("payment")
	views := []models.BookingView{}
	for _, b := range bookings {
		view := bc.bookingView(ctx, b)
		if payment != "" && view.PaymentLabel != payment {
			continue
		}
		views = append(views, view)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Bookings retrieved successfully",
		Data:    views,
	})
}

// GetBooking returns one booking with its derived payment label
func (bc *BookingController) GetBooking(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	booking, err := bc.findBooking(ctx, c)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Booking retrieved successfully",
		Data:    bc.bookingView(ctx, *booking),
	})
}

// UpdateBooking edits booking amounts and travel details. The amount
// invariant holds on every write and cancelled bookings are read-only.
func (bc *BookingController) UpdateBooking(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	booking, err := bc.findBooking(ctx, c)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	var req models.UpdateBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := engine.CanEditBookingAmounts(booking.Status); err != nil {
		return engineErrorResponse(c, err)
	}
	if err := engine.ValidateAmounts(req.TotalAmount, req.PaidAmount); err != nil {
		return engineErrorResponse(c, err)
	}

	set := bson.M{
		"totalAmount": req.TotalAmount,
		"paidAmount":  req.PaidAmount,
		"updatedAt":   time.Now(),
	}
	if req.TravelDate != "" {
		travelDate, err := time.Parse("2006-01-02", req.TravelDate)
		if err != nil {
			return engineErrorResponse(c, &engine.ValidationError{Field: "travelDate", Message: "travel date must be YYYY-MM-DD"})
		}
		set["travelDate"] = travelDate
	}
	if req.Travelers > 0 {
		set["travelers"] = req.Travelers
	}

	// The filter re-checks the status so a concurrent cancel cannot be
	// edited over between the read above and this write
	var updated models.Booking
	err = config.GetCollection(bc.DB, "bookings").FindOneAndUpdate(ctx,
		bson.M{
			"_id":      booking.ID,
			"tenantId": booking.TenantID,
			"status":   bson.M{"$ne": models.BookingStatusCancelled},
		},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return engineErrorResponse(c, &engine.ConflictError{
			Code:    "BOOKING_CANCELLED",
			Message: "cancelled bookings cannot be edited",
		})
	}
	if err != nil {
		log.Printf("Error updating booking: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update booking",
		})
	}

	actorID, claims, aerr := actorFromContext(c)
	if aerr == nil {
		bc.audit.Record(ctx, models.AuditLog{
			TenantID:   &booking.TenantID,
			EntityType: models.AuditEntityBooking,
			EntityID:   booking.ID,
			Action:     models.AuditActionBookingUpdated,
			ActorID:    &actorID,
			ActorName:  claims.Email,
			Metadata: bson.M{
				"totalAmount": req.TotalAmount,
				"paidAmount":  req.PaidAmount,
			},
		})
	}

	bc.cache.Invalidate(ctx, repositories.TenantKey(booking.TenantID.Hex()), repositories.PlatformKey())
	bc.hub.BroadcastToTenant(booking.TenantID, websocket.Event{
		Type:    websocket.EventBookingUpdated,
		Message: "Booking amounts updated",
		Data:    bc.bookingView(ctx, updated),
	})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Booking updated successfully",
		Data:    bc.bookingView(ctx, updated),
	})
}

// UpdateBookingStatus sets the operator-set booking status. It does not
// touch amounts; the payment label stays derived.
func (bc *BookingController) UpdateBookingStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	booking, err := bc.findBooking(ctx, c)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	var req models.UpdateBookingStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Status must be one of CONFIRMED, PARTIAL_PAID, FULLY_PAID, CANCELLED",
		})
	}

	if err := engine.CanChangeBookingStatus(booking.Status); err != nil {
		return engineErrorResponse(c, err)
	}

	// Filter re-checks the status so a concurrent cancel stays terminal
	var updated models.Booking
	err = config.GetCollection(bc.DB, "bookings").FindOneAndUpdate(ctx,
		bson.M{
			"_id":      booking.ID,
			"tenantId": booking.TenantID,
			"status":   bson.M{"$ne": models.BookingStatusCancelled},
		},
		bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return engineErrorResponse(c, &engine.ConflictError{
			Code:    "BOOKING_CANCELLED",
			Message: "cancelled bookings cannot change status",
		})
	}
	if err != nil {
		log.Printf("Error updating booking status: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update booking status",
		})
	}

	actorID, claims, aerr := actorFromContext(c)
	if aerr == nil {
		bc.audit.Record(ctx, models.AuditLog{
			TenantID:   &booking.TenantID,
			EntityType: models.AuditEntityBooking,
			EntityID:   booking.ID,
			Action:     models.AuditActionBookingStatus,
			ActorID:    &actorID,
			ActorName:  claims.Email,
			Metadata:   bson.M{"from": booking.Status, "to": req.Status},
		})
	}

	bc.cache.Invalidate(ctx, repositories.TenantKey(booking.TenantID.Hex()), repositories.PlatformKey())
	bc.hub.BroadcastToTenant(booking.TenantID, websocket.Event{
		Type:    websocket.EventBookingUpdated,
		Message: "Booking status changed to " + req.Status,
		Data:    bc.bookingView(ctx, updated),
	})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Booking status updated successfully",
		Data:    bc.bookingView(ctx, updated),
	})
}

// GetBookingAuditLogs returns the newest-first audit trail of one booking
func (bc *BookingController) GetBookingAuditLogs(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	booking, err := bc.findBooking(ctx, c)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	logs, err := bc.audit.ListForEntity(ctx, models.AuditEntityBooking, booking.ID)
	if err != nil {
		log.Printf("Error listing booking audit logs: %v", err)
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
