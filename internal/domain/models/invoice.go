// internal/domain/models/invoice.go
package models

var InvoiceStatuses = []string{"draft", "sent", "paid", "overdue", "cancelled"}

type Invoice struct {
	Meta          `bson:",inline"`
	InvoiceNumber string  `bson:"invoice_number" json:"invoiceNumber"`
	ClientName    string  `bson:"client_name" json:"clientName"`
	ClientEmail   string  `bson:"client_email,omitempty" json:"clientEmail,omitempty"`
	Amount        float64 `bson:"amount" json:"amount"`
	Tax           float64 `bson:"tax" json:"tax"`
	Currency      string  `bson:"currency" json:"currency"`
	IssueDate     string  `bson:"issue_date" json:"issueDate"`
	DueDate       string  `bson:"due_date" json:"dueDate"`
	Description   string  `bson:"description,omitempty" json:"description,omitempty"`
	Status        string  `bson:"status" json:"status"`
}

// Total is the amount including tax.
func (i Invoice) Total() float64 { return i.Amount + i.Tax }

type InvoiceInput struct {
	InvoiceNumber string  `json:"invoiceNumber" validate:"required,max=50" label:"Invoice number"`
	ClientName    string  `json:"clientName" validate:"required,max=200" label:"Client name"`
	ClientEmail   string  `json:"clientEmail" validate:"omitempty,email,max=254" label:"Client email"`
	Amount        float64 `json:"amount" validate:"gte=0" label:"Amount"`
	Tax           float64 `json:"tax" validate:"gte=0" label:"Tax"`
	Currency      string  `json:"currency" validate:"omitempty,iso4217" label:"Currency"`
	IssueDate     string  `json:"issueDate" validate:"required,datetime=2006-01-02" label:"Issue date"`
	DueDate       string  `json:"dueDate" validate:"required,datetime=2006-01-02,notbefore=IssueDate" label:"Due date"`
	Description   string  `json:"description" validate:"max=5000" label:"Description"`
	Status        string  `json:"status" validate:"omitempty,oneof=draft sent paid overdue cancelled" label:"Status"`
}

type InvoiceUpdate struct {
	InvoiceNumber *string  `bson:"invoice_number,omitempty" json:"invoiceNumber" validate:"omitempty,min=1,max=50" label:"Invoice number"`
	ClientName    *string  `bson:"client_name,omitempty" json:"clientName" validate:"omitempty,min=1,max=200" label:"Client name"`
	ClientEmail   *string  `bson:"client_email,omitempty" json:"clientEmail" validate:"omitempty,email,max=254" label:"Client email"`
	Amount        *float64 `bson:"amount,omitempty" json:"amount" validate:"omitempty,gte=0" label:"Amount"`
	Tax           *float64 `bson:"tax,omitempty" json:"tax" validate:"omitempty,gte=0" label:"Tax"`
	Currency      *string  `bson:"currency,omitempty" json:"currency" validate:"omitempty,iso4217" label:"Currency"`
	IssueDate     *string  `bson:"issue_date,omitempty" json:"issueDate" validate:"omitempty,datetime=2006-01-02" label:"Issue date"`
	DueDate       *string  `bson:"due_date,omitempty" json:"dueDate" validate:"omitempty,datetime=2006-01-02" label:"Due date"`
	Description   *string  `bson:"description,omitempty" json:"description" validate:"omitempty,max=5000" label:"Description"`
	Status        *string  `bson:"status,omitempty" json:"status" validate:"omitempty,oneof=draft sent paid overdue cancelled" label:"Status"`
}
