// internal/domain/models/image.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageGroup records the three object keys reserved for one uploaded image.
// Clients put each rendition at its key; the server never sees the bytes.
type ImageGroup struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    primitive.ObjectID `bson:"user_id" json:"-"`
	Small     string             `bson:"small" json:"small"`
	Medium    string             `bson:"medium" json:"medium"`
	Original  string             `bson:"original" json:"original"`
	CreatedAt time.Time          `bson:"created_at" json:"-"`
}

// Has reports whether key is one of the group's renditions.
func (g ImageGroup) Has(key string) bool {
	return key != "" && (g.Small == key || g.Medium == key || g.Original == key)
}
