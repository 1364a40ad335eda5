// internal/domain/models/transaction.go
package models

var (
	TransactionStatuses = []string{"pending", "completed", "failed", "reversed"}
	TransactionTypes    = []string{"income", "expense", "transfer"}
)

// Transaction is a ledger entry. InvoiceID and ExpenseID optionally link it to
// the document it settles.
type Transaction struct {
	Meta            `bson:",inline"`
	Type            string  `bson:"type" json:"type"`
	Amount          float64 `bson:"amount" json:"amount"`
	Currency        string  `bson:"currency" json:"currency"`
	TransactionDate string  `bson:"transaction_date" json:"transactionDate"`
	Category        string  `bson:"category" json:"category"`
	Description     string  `bson:"description,omitempty" json:"description,omitempty"`
	Reference       string  `bson:"reference,omitempty" json:"reference,omitempty"`
	Account         string  `bson:"account,omitempty" json:"account,omitempty"`
	InvoiceID       *int64  `bson:"invoice_id,omitempty" json:"invoiceId,omitempty"`
	ExpenseID       *int64  `bson:"expense_id,omitempty" json:"expenseId,omitempty"`
	Status          string  `bson:"status" json:"status"`
}

type TransactionInput struct {
	Type            string  `json:"type" validate:"required,oneof=income expense transfer" label:"Type"`
	Amount          float64 `json:"amount" validate:"gt=0" label:"Amount"`
	Currency        string  `json:"currency" validate:"omitempty,iso4217" label:"Currency"`
	TransactionDate string  `json:"transactionDate" validate:"required,datetime=2006-01-02" label:"Transaction date"`
	Category        string  `json:"category" validate:"required,max=100" label:"Category"`
	Description     string  `json:"description" validate:"max=1000" label:"Description"`
	Reference       string  `json:"reference" validate:"max=100" label:"Reference"`
	Account         string  `json:"account" validate:"max=100" label:"Account"`
	InvoiceID       *int64  `json:"invoiceId" validate:"omitempty,gt=0" label:"Invoice"`
	ExpenseID       *int64  `json:"expenseId" validate:"omitempty,gt=0" label:"Expense"`
	Status          string  `json:"status" validate:"omitempty,oneof=pending completed failed reversed" label:"Status"`
}

type TransactionUpdate struct {
	Type            *string  `bson:"type,omitempty" json:"type" validate:"omitempty,oneof=income expense transfer" label:"Type"`
	Amount          *float64 `bson:"amount,omitempty" json:"amount" validate:"omitempty,gt=0" label:"Amount"`
	Currency        *string  `bson:"currency,omitempty" json:"currency" validate:"omitempty,iso4217" label:"Currency"`
	TransactionDate *string  `bson:"transaction_date,omitempty" json:"transactionDate" validate:"omitempty,datetime=2006-01-02" label:"Transaction date"`
	Category        *string  `bson:"category,omitempty" json:"category" validate:"omitempty,min=1,max=100" label:"Category"`
	Description     *string  `bson:"description,omitempty" json:"description" validate:"omitempty,max=1000" label:"Description"`
	Reference       *string  `bson:"reference,omitempty" json:"reference" validate:"omitempty,max=100" label:"Reference"`
	Account         *string  `bson:"account,omitempty" json:"account" validate:"omitempty,max=100" label:"Account"`
	InvoiceID       *int64   `bson:"invoice_id,omitempty" json:"invoiceId" validate:"omitempty,gt=0" label:"Invoice"`
	ExpenseID       *int64   `bson:"expense_id,omitempty" json:"expenseId" validate:"omitempty,gt=0" label:"Expense"`
	Status          *string  `bson:"status,omitempty" json:"status" validate:"omitempty,oneof=pending completed failed reversed" label:"Status"`
}
