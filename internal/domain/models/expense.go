// internal/domain/models/expense.go
package models

var (
	ExpenseStatuses = []string{"pending", "approved", "rejected", "paid"}
	PaymentMethods  = []string{"cash", "bank_transfer", "card", "other"}
)

type Expense struct {
	Meta          `bson:",inline"`
	Description   string  `bson:"description" json:"description"`
	Category      string  `bson:"category" json:"category"`
	Amount        float64 `bson:"amount" json:"amount"`
	Currency      string  `bson:"currency" json:"currency"`
	ExpenseDate   string  `bson:"expense_date" json:"expenseDate"`
	Vendor        string  `bson:"vendor,omitempty" json:"vendor,omitempty"`
	BudgetID      *int64  `bson:"budget_id,omitempty" json:"budgetId,omitempty"`
	PaymentMethod string  `bson:"payment_method,omitempty" json:"paymentMethod,omitempty"`
	ReceiptURL    string  `bson:"receipt_url,omitempty" json:"receiptUrl,omitempty"`
	Status        string  `bson:"status" json:"status"`
}

type ExpenseInput struct {
	Description   string  `json:"description" validate:"required,max=1000" label:"Description"`
	Category      string  `json:"category" validate:"required,max=100" label:"Category"`
	Amount        float64 `json:"amount" validate:"gt=0" label:"Amount"`
	Currency      string  `json:"currency" validate:"omitempty,iso4217" label:"Currency"`
	ExpenseDate   string  `json:"expenseDate" validate:"required,datetime=2006-01-02" label:"Expense date"`
	Vendor        string  `json:"vendor" validate:"max=200" label:"Vendor"`
	BudgetID      *int64  `json:"budgetId" validate:"omitempty,gt=0" label:"Budget"`
	PaymentMethod string  `json:"paymentMethod" validate:"omitempty,oneof=cash bank_transfer card other" label:"Payment method"`
	ReceiptURL    string  `json:"receiptUrl" validate:"omitempty,httpurl,max=1000" label:"Receipt URL"`
	Status        string  `json:"status" validate:"omitempty,oneof=pending approved rejected paid" label:"Status"`
}

type ExpenseUpdate struct {
	Description   *string  `bson:"description,omitempty" json:"description" validate:"omitempty,min=1,max=1000" label:"Description"`
	Category      *string  `bson:"category,omitempty" json:"category" validate:"omitempty,min=1,max=100" label:"Category"`
	Amount        *float64 `bson:"amount,omitempty" json:"amount" validate:"omitempty,gt=0" label:"Amount"`
	Currency      *string  `bson:"currency,omitempty" json:"currency" validate:"omitempty,iso4217" label:"Currency"`
	ExpenseDate   *string  `bson:"expense_date,omitempty" json:"expenseDate" validate:"omitempty,datetime=2006-01-02" label:"Expense date"`
	Vendor        *string  `bson:"vendor,omitempty" json:"vendor" validate:"omitempty,max=200" label:"Vendor"`
	BudgetID      *int64   `bson:"budget_id,omitempty" json:"budgetId" validate:"omitempty,gt=0" label:"Budget"`
	PaymentMethod *string  `bson:"payment_method,omitempty" json:"paymentMethod" validate:"omitempty,oneof=cash bank_transfer card other" label:"Payment method"`
	ReceiptURL    *string  `bson:"receipt_url,omitempty" json:"receiptUrl" validate:"omitempty,httpurl,max=1000" label:"Receipt URL"`
	Status        *string  `bson:"status,omitempty" json:"status" validate:"omitempty,oneof=pending approved rejected paid" label:"Status"`
}
