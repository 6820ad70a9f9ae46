// repositories/audit_repository.go
package repositories

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tripnest/tripnest_backend/config"
	"github.com/tripnest/tripnest_backend/models"
)

// AuditRepository records and lists audit-log entries
type AuditRepository struct {
	db *mongo.Client
}

func NewAuditRepository(db *mongo.Client) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record inserts an audit entry. Failures are logged, not propagated;
// auditing never fails the mutation it describes (except inside the
// conversion transaction, which writes its entry directly).
func (r *AuditRepository) Record(ctx context.Context, entry models.AuditLog) {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if _, err := config.GetCollection(r.db, "audit_logs").InsertOne(ctx, entry); err != nil {
		log.Printf("Error recording audit log %s/%s: %v", entry.EntityType, entry.Action, err)
	}
}

// ListForEntity returns the newest-first audit trail of one entity
func (r *AuditRepository) ListForEntity(ctx context.Context, entityType string, entityID primitive.ObjectID) ([]models.AuditLog, error) {
	cursor, err := config.GetCollection(r.db, "audit_logs").Find(ctx,
		bson.M{"entityType": entityType, "entityId": entityID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(100),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := []models.AuditLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
