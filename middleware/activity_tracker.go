// middleware/activity_tracker.go
package middleware

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tripnest/tripnest_backend/config"
)

// ActivityTracker stamps lastActivityAt on the authenticated user.
// Best effort; failures never block the request.
func ActivityTracker(db *mongo.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := GetUserFromToken(c)
			if claims != nil {
				if userID, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
					go func() {
						ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
						defer cancel()
						config.GetCollection(db, "users").UpdateOne(ctx,
							bson.M{"_id": userID},
							bson.M{"$set": bson.M{"lastActivityAt": time.Now()}},
						)
					}()
				}
			}
			return next(c)
		}
	}
}
