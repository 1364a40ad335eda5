// internal/app/features/exports/registry.go
package exports

import (
	"context"
	"sort"

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
	"github.com/orkestra-ventures/orkestra/internal/app/system/export"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fetcher loads every record of one resource as a table.
type Fetcher func(ctx context.Context) (export.Table, error)

// Registry maps resource namespaces to their fetchers. The HTTP download
// handler and the operator CLI share it.
type Registry map[string]Fetcher

// NewRegistry covers all thirteen resource namespaces.
func NewRegistry(db *mongo.Database) Registry {
	r := Registry{}
	add(r, "applications", "Applications", applicationstore.New(db).GetAll)
	add(r, "contacts", "Contacts", contactstore.New(db).GetAll)
	add(r, "newsletter", "Newsletter", newsletterstore.New(db).GetAll)
	add(r, "cohorts", "Cohorts", cohortstore.New(db).GetAll)
	add(r, "mentors", "Mentors", mentorstore.New(db).GetAll)
	add(r, "leads", "Leads", leadstore.New(db).GetAll)
	add(r, "employees", "Employees", employeestore.New(db).GetAll)
	add(r, "attendance", "Attendance", attendancestore.New(db).GetAll)
	add(r, "budgets", "Budgets", budgetstore.New(db).GetAll)
	add(r, "expenses", "Expenses", expensestore.New(db).GetAll)
	add(r, "invoices", "Invoices", invoicestore.New(db).GetAll)
	add(r, "transactions", "Transactions", transactionstore.New(db).GetAll)
	add(r, "webPages", "Web Pages", webpagestore.New(db).GetAll)
	return r
}

func add[T any](r Registry, name, sheet string, getAll func(context.Context) ([]T, error)) {
	r[name] = func(ctx context.Context) (export.Table, error) {
		recs, err := getAll(ctx)
		if err != nil {
			return export.Table{}, err
		}
		return export.FromRecords(sheet, recs), nil
	}
}

// Names returns the registered namespaces in sorted order.
func (r Registry) Names() []string {
	out := make([]string, 0, len(r))
	for name := range r {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
