// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/imagehub/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Metrics is created in ConnectDB so Startup and BuildHandler share it.
	Metrics *metrics.Metrics
}
