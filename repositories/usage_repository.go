// repositories/usage_repository.go
package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tripnest/tripnest_backend/config"
	"github.com/tripnest/tripnest_backend/engine"
	"github.com/tripnest/tripnest_backend/models"
)

// collections counted against plan limits, by resource kind
var kindCollections = map[engine.ResourceKind]string{
	engine.KindAgent:       "users",
	engine.KindDestination: "destinations",
	engine.KindPackage:     "packages",
}

// UsageRepository reads plan limits and current usage, and performs
// limit-checked inserts. The count and the insert run inside one
// transaction so two concurrent creates cannot both squeeze under the
// limit.
type UsageRepository struct {
	db *mongo.Client
}

func NewUsageRepository(db *mongo.Client) *UsageRepository {
	return &UsageRepository{db: db}
}

// TenantLimits returns the plan limits of a tenant's subscription, or nil
// when the tenant has no usable subscription. EXPIRED and SUSPENDED
// subscriptions gate creation the same as having none.
func (r *UsageRepository) TenantLimits(ctx context.Context, tenantID primitive.ObjectID) (*models.PlanLimits, error) {
	var sub models.Subscription
	err := config.GetCollection(r.db, "subscriptions").
		FindOne(ctx, bson.M{"tenantId": tenantID}).Decode(&sub)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	if sub.Status != models.SubscriptionStatusActive && sub.Status != models.SubscriptionStatusTrial {
		return nil, nil
	}

	var plan models.Plan
	err = config.GetCollection(r.db, "plans").
		FindOne(ctx, bson.M{"_id": sub.PlanID}).Decode(&plan)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	limits := plan.Limits
	return &limits, nil
}

// CountResource counts a tenant's resources of the given kind. Agents are
// users with role AGENT; inactive agents still occupy a seat.
func (r *UsageRepository) CountResource(ctx context.Context, kind engine.ResourceKind, tenantID primitive.ObjectID) (int64, error) {
	collName, ok := kindCollections[kind]
	if !ok {
		return 0, &engine.ValidationError{Field: "kind", Message: "unknown resource kind"}
	}

	filter := bson.M{"tenantId": tenantID}
	if kind == engine.KindAgent {
		filter["role"] = models.RoleAgent
	}

	return config.GetCollection(r.db, collName).CountDocuments(ctx, filter)
}

// CanCreate runs the advisory limit check for a tenant and kind
func (r *UsageRepository) CanCreate(ctx context.Context, kind engine.ResourceKind, tenantID primitive.ObjectID) (engine.Decision, error) {
	limits, err := r.TenantLimits(ctx, tenantID)
	if err != nil {
		return engine.Decision{}, err
	}
	count, err := r.CountResource(ctx, kind, tenantID)
	if err != nil {
		return engine.Decision{}, err
	}
	return engine.CanCreate(kind, count, limits), nil
}

// InsertWithinLimit inserts doc into the kind's collection only if the
// tenant is still under its plan limit, re-checking the count inside the
// transaction. Returns a LimitError when the limit denies the insert.
func (r *UsageRepository) InsertWithinLimit(ctx context.Context, kind engine.ResourceKind, tenantID primitive.ObjectID, doc interface{}) error {
	collName, ok := kindCollections[kind]
	if !ok {
		return &engine.ValidationError{Field: "kind", Message: "unknown resource kind"}
	}

	session, err := r.db.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		limits, err := r.TenantLimits(sc, tenantID)
		if err != nil {
			return nil, err
		}
		count, err := r.CountResource(sc, kind, tenantID)
		if err != nil {
			return nil, err
		}

		decision := engine.CanCreate(kind, count, limits)
		if !decision.Allowed {
			return nil, &engine.LimitError{Kind: kind, Reason: decision.Reason}
		}

		if _, err := config.GetCollection(r.db, collName).InsertOne(sc, doc); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

// TenantCounts returns usage for all limited kinds at once
func (r *UsageRepository) TenantCounts(ctx context.Context, tenantID primitive.ObjectID) (*models.TenantCounts, error) {
	agents, err := r.CountResource(ctx, engine.KindAgent, tenantID)
	if err != nil {
		return nil, err
	}
	destinations, err := r.CountResource(ctx, engine.KindDestination, tenantID)
	if err != nil {
		return nil, err
	}
	packages, err := r.CountResource(ctx, engine.KindPackage, tenantID)
	if err != nil {
		return nil, err
	}
	return &models.TenantCounts{
		Agents:       agents,
		Destinations: destinations,
		Packages:     packages,
	}, nil
}
