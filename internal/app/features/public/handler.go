// internal/app/features/public/handler.go
//
// Package public serves the procedures anonymous visitors call: the
// application and contact forms, newsletter signup and published pages.
package public

import (
	applicationstore "github.com/orkestra-ventures/orkestra/internal/app/store/applications"
	contactstore "github.com/orkestra-ventures/orkestra/internal/app/store/contacts"
	newsletterstore "github.com/orkestra-ventures/orkestra/internal/app/store/newsletter"
	webpagestore "github.com/orkestra-ventures/orkestra/internal/app/store/webpages"
	"github.com/orkestra-ventures/orkestra/internal/app/system/auditlog"
	"github.com/orkestra-ventures/orkestra/internal/app/system/notify"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Applications *applicationstore.Store
	Contacts     *contactstore.Store
	Newsletter   *newsletterstore.Store
	WebPages     *webpagestore.Store

	Notify *notify.Dispatcher
	Audit  *auditlog.Logger
	Log    *zap.Logger
}

// NewHandler builds a Handler over db. notifier may be nil, in which case
// submissions are stored without an owner notification.
func NewHandler(db *mongo.Database, notifier *notify.Dispatcher, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Applications: applicationstore.New(db),
		Contacts:     contactstore.New(db),
		Newsletter:   newsletterstore.New(db),
		WebPages:     webpagestore.New(db),
		Notify:       notifier,
		Audit:        audit,
		Log:          logger,
	}
}
