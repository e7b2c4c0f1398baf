// internal/domain/models/apitoken.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// APIToken is a bearer credential for the JSON API.
// Prefix is stored in clear for lookup; the full token only as a bcrypt hash.
type APIToken struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     primitive.ObjectID `bson:"user_id"`
	Prefix     string             `bson:"prefix"`
	SecretHash []byte             `bson:"secret_hash"`
	Label      string             `bson:"label,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
	LastUsedAt *time.Time         `bson:"last_used_at,omitempty"`
}
