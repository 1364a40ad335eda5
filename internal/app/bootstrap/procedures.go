// internal/app/bootstrap/procedures.go
package bootstrap

import (
	"time"

	auditfeature "github.com/orkestra-ventures/orkestra/internal/app/features/auditlog"
	"github.com/orkestra-ventures/orkestra/internal/app/features/crud"
	dashboardfeature "github.com/orkestra-ventures/orkestra/internal/app/features/dashboard"
	loginfeature "github.com/orkestra-ventures/orkestra/internal/app/features/login"
	publicfeature "github.com/orkestra-ventures/orkestra/internal/app/features/public"
	applicationstore "github.com/orkestra-ventures/orkestra/internal/app/store/applications"
	attendancestore "github.com/orkestra-ventures/orkestra/internal/app/store/attendance"
	budgetstore "github.com/orkestra-ventures/orkestra/internal/app/store/budgets"
	cohortstore "github.com/orkestra-ventures/orkestra/internal/app/store/cohorts"
	contactstore "github.com/orkestra-ventures/orkestra/internal/app/store/contacts"
	employeestore "github.com/orkestra-ventures/orkestra/internal/app/store/employees"
	expensestore "github.com/orkestra-ventures/orkestra/internal/app/store/expenses"
	invoicestore "github.com/orkestra-ventures/orkestra/internal/app/store/invoices"
	leadstore "github.com/orkestra-ventures/orkestra/internal/app/store/leads"
	mentorstore "github.com/orkestra-ventures/orkestra/internal/app/store/mentors"
	newsletterstore "github.com/orkestra-ventures/orkestra/internal/app/store/newsletter"
	transactionstore "github.com/orkestra-ventures/orkestra/internal/app/store/transactions"
	webpagestore "github.com/orkestra-ventures/orkestra/internal/app/store/webpages"
	"github.com/orkestra-ventures/orkestra/internal/app/system/auditlog"
	"github.com/orkestra-ventures/orkestra/internal/app/system/auth"
	"github.com/orkestra-ventures/orkestra/internal/app/system/ratelimit"
	"github.com/orkestra-ventures/orkestra/internal/app/system/rpc"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Login attempts allowed per email before that address is locked out for
// the rest of the window.
const (
	loginEmailLimit  = 5
	loginEmailWindow = 15 * time.Minute
)

// buildProcedures registers every RPC procedure on a new router.
func buildProcedures(appCfg AppConfig, deps DBDeps, sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *rpc.Router {
	db := deps.MongoDatabase
	rt := rpc.NewRouter(logger)

	registerResources(rt, db, audit)

	submit := deps.Limits.Counter("submit", appCfg.RateLimitSubmit, time.Minute)
	publicfeature.Register(rt, publicfeature.NewHandler(db, deps.Notifier, audit, logger), submit)

	dashboardfeature.Register(rt, dashboardfeature.NewHandler(db, audit, logger))

	loginLimiter := ratelimit.NewLoginLimiter(
		deps.Limits.Counter("login-ip", appCfg.RateLimitLogin, time.Minute),
		deps.Limits.Counter("login-email", loginEmailLimit, loginEmailWindow),
	)
	loginfeature.Register(rt, loginfeature.NewHandler(db, sessionMgr, loginLimiter, audit, logger))

	auditfeature.Register(rt, auditfeature.NewHandler(db, logger))

	return rt
}

// registerResources adds the standard admin procedures for each namespace.
func registerResources(rt *rpc.Router, db *mongo.Database, audit *auditlog.Logger) {
	crud.Register(rt, crud.Resource[models.Application, models.ApplicationInput, models.ApplicationUpdate]{
		Name: "applications", Store: applicationstore.New(db), Statuses: models.ApplicationStatuses,
	}, audit)
	crud.Register(rt, crud.Resource[models.Contact, models.ContactInput, models.ContactUpdate]{
		Name: "contacts", Store: contactstore.New(db), Statuses: models.ContactStatuses,
	}, audit)
	crud.Register(rt, crud.Resource[models.NewsletterSubscriber, models.NewsletterInput, models.NewsletterUpdate]{
		Name: "newsletter", Store: newsletterstore.New(db),
	}, audit)
	crud.Register(rt, crud.Resource[models.Cohort, models.CohortInput, models.CohortUpdate]{
		Name: "cohorts", Store: cohortstore.New(db), Statuses: models.CohortStatuses,
	}, audit)
	crud.Register(rt, crud.Resource[models.Mentor, models.MentorInput, models.MentorUpdate]{
		Name: "mentors", Store: mentorstore.New(db), Statuses: models.MentorStatuses,
	}, audit)
	crud.Register(rt, crud.Resource[models.Lead, models.LeadInput, models.LeadUpdate]{
		Name: "leads", Store: leadstore.New(db), Statuses: models.LeadStatuses,
	}, audit)
	crud.Register(rt, crud.Resource[models.Employee, models.EmployeeInput, models.EmployeeUpdate]{
		Name: "employees", Store: employeestore.New(db), Statuses: models.EmployeeStatuses,
	}, audit)
	crud.Register(rt, crud.Resource[models.AttendanceRecord, models.AttendanceInput, models.AttendanceUpdate]{
		Name: "attendance", Store: attendancestore.New(db), Statuses: models.AttendanceStatuses,
	}, audit)
	crud.Register(rt, crud.Resource[models.Budget, models.BudgetInput, models.BudgetUpdate]{
		Name: "budgets", Store: budgetstore.New(db), Statuses: models.BudgetStatuses,
	}, audit)
	crud.Register(rt, crud.Resource[models.Expense, models.ExpenseInput, models.ExpenseUpdate]{
		Name: "expenses", Store: expensestore.New(db), Statuses: models.ExpenseStatuses,
	}, audit)
	crud.Register(rt, crud.Resource[models.Invoice, models.InvoiceInput, models.InvoiceUpdate]{
		Name: "invoices", Store: invoicestore.New(db), Statuses: models.InvoiceStatuses,
	}, audit)
	crud.Register(rt, crud.Resource[models.Transaction, models.TransactionInput, models.TransactionUpdate]{
		Name: "transactions", Store: transactionstore.New(db), Statuses: models.TransactionStatuses,
	}, audit)
	crud.Register(rt, crud.Resource[models.WebPage, models.WebPageInput, models.WebPageUpdate]{
		Name: "webPages", Store: webpagestore.New(db), Statuses: models.WebPageStatuses,
	}, audit)
}
