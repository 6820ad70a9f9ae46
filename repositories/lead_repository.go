// repositories/lead_repository.go
package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tripnest/tripnest_backend/config"
	"github.com/tripnest/tripnest_backend/engine"
	"github.com/tripnest/tripnest_backend/models"
	"github.com/tripnest/tripnest_backend/utils"
)

// LeadRepository owns lead reads and the transactional lead-to-booking
// conversion
type LeadRepository struct {
	db *mongo.Client
}

func NewLeadRepository(db *mongo.Client) *LeadRepository {
	return &LeadRepository{db: db}
}

// FindByID returns a tenant's lead by id
func (r *LeadRepository) FindByID(ctx context.Context, tenantID, leadID primitive.ObjectID) (*models.Lead, error) {
	var lead models.Lead
	err := config.GetCollection(r.db, "leads").
		FindOne(ctx, bson.M{"_id": leadID, "tenantId": tenantID}).Decode(&lead)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &engine.NotFoundError{Entity: "lead"}
		}
		return nil, err
	}
	return &lead, nil
}

// FindByPhone runs the advisory duplicate lookup: a substring match on the
// digit sequence of the phone number, scoped to the tenant. "+1-555-0100"
// is found by "555-0100".
func (r *LeadRepository) FindByPhone(ctx context.Context, tenantID primitive.ObjectID, phone string) ([]models.Lead, error) {
	digits := utils.NormalizePhoneDigits(phone)
	if digits == "" {
		return []models.Lead{}, nil
	}

	// Phone numbers are stored sanitized (digits with a leading +), so a
	// digit-sequence regex matches regardless of the separators the
	// operator typed.
	filter := bson.M{
		"tenantId": tenantID,
		"phone":    bson.M{"$regex": digitsPattern(digits)},
	}

	cursor, err := config.GetCollection(r.db, "leads").
		Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(20))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	leads := []models.Lead{}
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// Convert atomically turns a non-WON lead into a booking: the lead moves
// to WON with a conditional write, the booking row is inserted and an
// audit entry recorded, all inside one transaction. A concurrent second
// caller loses the conditional write and gets LEAD_ALREADY_CONVERTED.
func (r *LeadRepository) Convert(
	ctx context.Context,
	tenantID, leadID primitive.ObjectID,
	actorID primitive.ObjectID,
	actorName string,
	req *models.ConvertLeadRequest,
) (*models.Booking, error) {
	lead, err := r.FindByID(ctx, tenantID, leadID)
	if err != nil {
		return nil, err
	}
	if err := engine.ValidateConversion(lead, req); err != nil {
		return nil, err
	}

	var destinationID, packageID *primitive.ObjectID
	if req.DestinationID != "" {
		id, err := primitive.ObjectIDFromHex(req.DestinationID)
		if err != nil {
			return nil, &engine.ValidationError{Field: "destinationId", Message: "invalid destination ID"}
		}
		destinationID = &id
	}
	if req.PackageID != "" {
		id, err := primitive.ObjectIDFromHex(req.PackageID)
		if err != nil {
			return nil, &engine.ValidationError{Field: "packageId", Message: "invalid package ID"}
		}
		packageID = &id
	}

	session, err := r.db.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	now := time.Now()
	booking := &models.Booking{
		ID:            primitive.NewObjectID(),
		TenantID:      tenantID,
		LeadID:        leadID,
		DestinationID: destinationID,
		PackageID:     packageID,
		TotalAmount:   req.TotalAmount,
		PaidAmount:    req.PaidAmount,
		TravelDate:    lead.TravelDate,
		Travelers:     lead.Travelers,
		Status:        models.BookingStatusConfirmed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		// Conditional write closes the conversion race: only one caller
		// can flip the lead out of a non-WON state.
		res, err := config.GetCollection(r.db, "leads").UpdateOne(sc,
			bson.M{
				"_id":      leadID,
				"tenantId": tenantID,
				"status":   bson.M{"$ne": models.LeadStatusWon},
			},
			bson.M{"$set": bson.M{
				"status":    models.LeadStatusWon,
				"bookingId": booking.ID,
				"updatedAt": now,
			}},
		)
		if err != nil {
			return nil, err
		}
		if res.ModifiedCount == 0 {
			return nil, &engine.ConflictError{
				Code:    engine.CodeLeadAlreadyConverted,
				Message: "lead has already been converted to a booking",
			}
		}

		if _, err := config.GetCollection(r.db, "bookings").InsertOne(sc, booking); err != nil {
			return nil, err
		}

		audit := models.AuditLog{
			ID:         primitive.NewObjectID(),
			TenantID:   &tenantID,
			EntityType: models.AuditEntityLead,
			EntityID:   leadID,
			Action:     models.AuditActionLeadConverted,
			ActorID:    &actorID,
			ActorName:  actorName,
			Metadata: bson.M{
				"bookingId":     booking.ID.Hex(),
				"destinationId": req.DestinationID,
				"packageId":     req.PackageID,
				"totalAmount":   req.TotalAmount,
				"paidAmount":    req.PaidAmount,
			},
			CreatedAt: now,
		}
		if _, err := config.GetCollection(r.db, "audit_logs").InsertOne(sc, audit); err != nil {
			return nil, err
		}

		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// digitsPattern builds a regex that matches the digit sequence with any
// non-digit separators between digits
func digitsPattern(digits string) string {
	pattern := ""
	for i, r := range digits {
		if i > 0 {
			pattern += `\D*`
		}
		pattern += string(r)
	}
	return pattern
}
