// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/go-redis/redis/v8"
	"github.com/orkestra-ventures/orkestra/internal/app/system/mailer"
	"github.com/orkestra-ventures/orkestra/internal/app/system/notify"
	"github.com/orkestra-ventures/orkestra/internal/app/system/ratelimit"
	"github.com/orkestra-ventures/orkestra/internal/app/system/tasks"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Redis is nil when redis_url is not configured.
	Redis *redis.Client

	Mailer    *mailer.Mailer
	Notifier  *notify.Dispatcher
	Limits    *ratelimit.Backend
	Scheduler *tasks.Scheduler
}
