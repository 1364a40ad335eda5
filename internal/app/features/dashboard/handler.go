// internal/app/features/dashboard/handler.go
//
// Package dashboard serves the admin.* procedures behind the back-office
// home screen: headline stats and the inbox views over applications,
// contact messages and newsletter signups.
package dashboard

import (
	applicationstore "github.com/orkestra-ventures/orkestra/internal/app/store/applications"
	contactstore "github.com/orkestra-ventures/orkestra/internal/app/store/contacts"
	newsletterstore "github.com/orkestra-ventures/orkestra/internal/app/store/newsletter"
	"github.com/orkestra-ventures/orkestra/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// RecentLimit is how many of the newest applications and contact messages
// admin.getStats returns.
const RecentLimit = 5

type Handler struct {
	DB           *mongo.Database
	Applications *applicationstore.Store
	Contacts     *contactstore.Store
	Newsletter   *newsletterstore.Store
	Audit        *auditlog.Logger
	Log          *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Applications: applicationstore.New(db),
		Contacts:     contactstore.New(db),
		Newsletter:   newsletterstore.New(db),
		Audit:        audit,
		Log:          logger,
	}
}
