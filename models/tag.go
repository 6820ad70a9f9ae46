// models/tag.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tag is a tenant-scoped label attached to destinations and packages
type Tag struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID  primitive.ObjectID `json:"tenantId" bson:"tenantId"`
	Name      string             `json:"name" bson:"name"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// TagRequest represents the request body for creating or renaming a tag
type TagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=40"`
}
