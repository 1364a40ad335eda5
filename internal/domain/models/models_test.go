package models

import (
	"reflect"
	"strings"
	"testing"
)

// oneofValues returns the values of the oneof rule in a validate tag.
func oneofValues(tag string) []string {
	for _, rule := range strings.Split(tag, ",") {
		if strings.HasPrefix(rule, "oneof=") {
			return strings.Fields(strings.TrimPrefix(rule, "oneof="))
		}
	}
	return nil
}

func TestStatusTagsMatchStatusLists(t *testing.T) {
	tests := []struct {
		name     string
		typ      any
		field    string
		statuses []string
	}{
		{"ApplicationInput", ApplicationInput{}, "Status", ApplicationStatuses},
		{"ApplicationUpdate", ApplicationUpdate{}, "Status", ApplicationStatuses},
		{"ApplicationInput track", ApplicationInput{}, "Track", Tracks},
		{"ApplicationInput careerPath", ApplicationInput{}, "CareerPath", CareerPaths},
		{"ContactInput", ContactInput{}, "Status", ContactStatuses},
		{"ContactInput inquiryType", ContactInput{}, "InquiryType", InquiryTypes},
		{"CohortInput", CohortInput{}, "Status", CohortStatuses},
		{"CohortInput mode", CohortInput{}, "Mode", CohortModes},
		{"MentorInput", MentorInput{}, "Status", MentorStatuses},
		{"MentorInput track", MentorInput{}, "Track", MentorTracks},
		{"LeadInput", LeadInput{}, "Status", LeadStatuses},
		{"LeadInput source", LeadInput{}, "Source", LeadSources},
		{"EmployeeInput", EmployeeInput{}, "Status", EmployeeStatuses},
		{"EmployeeInput type", EmployeeInput{}, "EmploymentType", EmploymentTypes},
		{"AttendanceInput", AttendanceInput{}, "Status", AttendanceStatuses},
		{"BudgetInput", BudgetInput{}, "Status", BudgetStatuses},
		{"BudgetInput period", BudgetInput{}, "Period", BudgetPeriods},
		{"ExpenseInput", ExpenseInput{}, "Status", ExpenseStatuses},
		{"ExpenseInput payment", ExpenseInput{}, "PaymentMethod", PaymentMethods},
		{"InvoiceInput", InvoiceInput{}, "Status", InvoiceStatuses},
		{"TransactionInput", TransactionInput{}, "Status", TransactionStatuses},
		{"TransactionInput type", TransactionInput{}, "Type", TransactionTypes},
		{"WebPageInput", WebPageInput{}, "Status", WebPageStatuses},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := reflect.TypeOf(tt.typ).FieldByName(tt.field)
			if !ok {
				t.Fatalf("field %s not found", tt.field)
			}
			got := oneofValues(f.Tag.Get("validate"))
			if !reflect.DeepEqual(got, tt.statuses) {
				t.Errorf("oneof values = %v, want %v", got, tt.statuses)
			}
		})
	}
}

func TestUpdateTypesMirrorInputs(t *testing.T) {
	pairs := []struct {
		input, update any
	}{
		{ApplicationInput{}, ApplicationUpdate{}},
		{ContactInput{}, ContactUpdate{}},
		{CohortInput{}, CohortUpdate{}},
		{MentorInput{}, MentorUpdate{}},
		{LeadInput{}, LeadUpdate{}},
		{EmployeeInput{}, EmployeeUpdate{}},
		{AttendanceInput{}, AttendanceUpdate{}},
		{BudgetInput{}, BudgetUpdate{}},
		{ExpenseInput{}, ExpenseUpdate{}},
		{InvoiceInput{}, InvoiceUpdate{}},
		{TransactionInput{}, TransactionUpdate{}},
		{WebPageInput{}, WebPageUpdate{}},
	}

	for _, p := range pairs {
		in := reflect.TypeOf(p.input)
		up := reflect.TypeOf(p.update)
		t.Run(up.Name(), func(t *testing.T) {
			for i := 0; i < up.NumField(); i++ {
				uf := up.Field(i)
				if uf.Type.Kind() != reflect.Ptr {
					t.Errorf("%s.%s should be a pointer", up.Name(), uf.Name)
				}
				if !strings.HasSuffix(uf.Tag.Get("bson"), ",omitempty") {
					t.Errorf("%s.%s bson tag should be omitempty", up.Name(), uf.Name)
				}
				inf, ok := in.FieldByName(uf.Name)
				if !ok {
					t.Errorf("%s has no field %s", in.Name(), uf.Name)
					continue
				}
				if inf.Tag.Get("json") != uf.Tag.Get("json") {
					t.Errorf("%s json tag %q differs from input %q", uf.Name, uf.Tag.Get("json"), inf.Tag.Get("json"))
				}
			}
		})
	}
}

func TestMeta_GetMeta(t *testing.T) {
	var a Application
	var r Record = &a
	r.GetMeta().ID = 42
	if a.ID != 42 {
		t.Errorf("GetMeta should expose the embedded Meta, got ID %d", a.ID)
	}
}

func TestInvoice_Total(t *testing.T) {
	inv := Invoice{Amount: 100, Tax: 14}
	if inv.Total() != 114 {
		t.Errorf("Total() = %v, want 114", inv.Total())
	}
}
