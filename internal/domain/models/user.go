// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account that owns images and the bucket they live in.
//
// NOTE:
//   - Storage is nil until the user saves their S3 settings.
//     Image operations refuse to run without it.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string             `bson:"username" json:"username"`
	Storage   *StorageConfig     `bson:"storage,omitempty" json:"storage,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// StorageConfig points at an S3-compatible bucket the user controls.
type StorageConfig struct {
	Endpoint  string `bson:"endpoint" json:"endpoint"`
	Region    string `bson:"region" json:"region"`
	Bucket    string `bson:"bucket" json:"bucket"`
	AccessKey string `bson:"access_key" json:"access_key"`
	SecretKey string `bson:"secret_key" json:"secret_key"`
}
