// internal/domain/models/budget.go
package models

// DefaultCurrency is used when a monetary record does not name one.
const DefaultCurrency = "EGP"

var (
	BudgetStatuses = []string{"draft", "approved", "closed"}
	BudgetPeriods  = []string{"monthly", "quarterly", "annual"}
)

type Budget struct {
	Meta       `bson:",inline"`
	Name       string  `bson:"name" json:"name"`
	Category   string  `bson:"category" json:"category"`
	FiscalYear int     `bson:"fiscal_year" json:"fiscalYear"`
	Period     string  `bson:"period" json:"period"`
	Amount     float64 `bson:"amount" json:"amount"`
	Spent      float64 `bson:"spent" json:"spent"`
	Currency   string  `bson:"currency" json:"currency"`
	Notes      string  `bson:"notes,omitempty" json:"notes,omitempty"`
	Status     string  `bson:"status" json:"status"`
}

type BudgetInput struct {
	Name       string  `json:"name" validate:"required,max=200" label:"Name"`
	Category   string  `json:"category" validate:"required,max=100" label:"Category"`
	FiscalYear int     `json:"fiscalYear" validate:"required,gte=2000,lte=2100" label:"Fiscal year"`
	Period     string  `json:"period" validate:"omitempty,oneof=monthly quarterly annual" label:"Period"`
	Amount     float64 `json:"amount" validate:"gte=0" label:"Amount"`
	Spent      float64 `json:"spent" validate:"gte=0" label:"Spent"`
	Currency   string  `json:"currency" validate:"omitempty,iso4217" label:"Currency"`
	Notes      string  `json:"notes" validate:"max=5000" label:"Notes"`
	Status     string  `json:"status" validate:"omitempty,oneof=draft approved closed" label:"Status"`
}

type BudgetUpdate struct {
	Name       *string  `bson:"name,omitempty" json:"name" validate:"omitempty,min=1,max=200" label:"Name"`
	Category   *string  `bson:"category,omitempty" json:"category" validate:"omitempty,min=1,max=100" label:"Category"`
	FiscalYear *int     `bson:"fiscal_year,omitempty" json:"fiscalYear" validate:"omitempty,gte=2000,lte=2100" label:"Fiscal year"`
	Period     *string  `bson:"period,omitempty" json:"period" validate:"omitempty,oneof=monthly quarterly annual" label:"Period"`
	Amount     *float64 `bson:"amount,omitempty" json:"amount" validate:"omitempty,gte=0" label:"Amount"`
	Spent      *float64 `bson:"spent,omitempty" json:"spent" validate:"omitempty,gte=0" label:"Spent"`
	Currency   *string  `bson:"currency,omitempty" json:"currency" validate:"omitempty,iso4217" label:"Currency"`
	Notes      *string  `bson:"notes,omitempty" json:"notes" validate:"omitempty,max=5000" label:"Notes"`
	Status     *string  `bson:"status,omitempty" json:"status" validate:"omitempty,oneof=draft approved closed" label:"Status"`
}
