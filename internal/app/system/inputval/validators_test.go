package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"founder@startup.io",
		"first.last+cohort7@orkestra.ventures",
		"ops@mail.example.co.uk",
		"dev@localhost",
		"  padded@example.com  ",
	}
	invalid := []string{
		"", "   ", "founder", "founder@", "@startup.io",
		".founder@startup.io", "founder.@startup.io", "fou..nder@startup.io",
		"founder@.startup.io", "founder@startup..io",
		"Founder <founder@startup.io>", "foun der@startup.io", "founder@start up.io",
	}
	for _, s := range valid {
		if !IsValidEmail(s) {
			t.Errorf("IsValidEmail(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidEmail(s) {
			t.Errorf("IsValidEmail(%q) = true, want false", s)
		}
	}
}

func TestIsValidHTTPURL(t *testing.T) {
	tests := map[string]bool{
		"https://orkestra.ventures":            true,
		"http://localhost:8080/apply?track=ai": true,
		" https://linkedin.com/in/someone ":    true,
		"":                                     false,
		"ftp://files.example.com":              false,
		"mailto:hello@orkestra.ventures":       false,
		"orkestra.ventures":                    false,
		"//orkestra.ventures":                  false,
		"javascript:alert(1)":                  false,
	}
	for in, want := range tests {
		if got := IsValidHTTPURL(in); got != want {
			t.Errorf("IsValidHTTPURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"about", true},
		{"about-us", true},
		{"ai-2025", true},
		{"a", true},

		{"", false},
		{"About", false},
		{"about us", false},
		{"-about", false},
		{"about-", false},
		{"about--us", false},
		{"about_us", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			got := IsValidSlug(tt.slug)
			if got != tt.want {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.slug, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	type TestInput struct {
		Name  string `validate:"required,max=10" label:"Full name"`
		Email string `validate:"required,email" label:"Email address"`
	}

	tests := []struct {
		name       string
		input      TestInput
		wantErrors bool
		wantFirst  string
	}{
		{
			name:       "valid input",
			input:      TestInput{Name: "John", Email: "john@example.com"},
			wantErrors: false,
		},
		{
			name:       "missing name",
			input:      TestInput{Name: "", Email: "john@example.com"},
			wantErrors: true,
			wantFirst:  "Full name is required.",
		},
		{
			name:       "name too long",
			input:      TestInput{Name: "VeryLongNameThatExceedsLimit", Email: "john@example.com"},
			wantErrors: true,
			wantFirst:  "Full name must be at most 10 characters.",
		},
		{
			name:       "invalid email",
			input:      TestInput{Name: "John", Email: "not-an-email"},
			wantErrors: true,
			wantFirst:  "A valid email address is required.",
		},
		{
			name:       "missing both",
			input:      TestInput{Name: "", Email: ""},
			wantErrors: true,
			wantFirst:  "Full name is required.", // First error
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.input)

			if result.HasErrors() != tt.wantErrors {
				t.Errorf("Validate() HasErrors = %v, want %v", result.HasErrors(), tt.wantErrors)
			}

			if tt.wantErrors && result.First() != tt.wantFirst {
				t.Errorf("Validate() First() = %q, want %q", result.First(), tt.wantFirst)
			}
		})
	}
}

func TestResult_All(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		r := &Result{}
		if r.All() != "" {
			t.Errorf("All() = %q, want empty", r.All())
		}
	})

	t.Run("one error", func(t *testing.T) {
		r := &Result{
			Errors: []FieldError{{Message: "Error 1"}},
		}
		if r.All() != "Error 1" {
			t.Errorf("All() = %q, want %q", r.All(), "Error 1")
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		r := &Result{
			Errors: []FieldError{
				{Message: "Error 1"},
				{Message: "Error 2"},
			},
		}
		want := "Error 1; Error 2"
		if r.All() != want {
			t.Errorf("All() = %q, want %q", r.All(), want)
		}
	})
}

func TestResult_First(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		r := &Result{}
		if r.First() != "" {
			t.Errorf("First() = %q, want empty", r.First())
		}
	})

	t.Run("with errors", func(t *testing.T) {
		r := &Result{
			Errors: []FieldError{
				{Message: "First error"},
				{Message: "Second error"},
			},
		}
		if r.First() != "First error" {
			t.Errorf("First() = %q, want %q", r.First(), "First error")
		}
	})
}

func TestValidate_CustomRules(t *testing.T) {
	type SlugInput struct {
		Slug string `validate:"required,slug" label:"Slug"`
	}

	type URLInput struct {
		URL string `validate:"required,httpurl" label:"Portfolio URL"`
	}

	t.Run("valid slug", func(t *testing.T) {
		result := Validate(SlugInput{Slug: "about-us"})
		if result.HasErrors() {
			t.Errorf("Validate(valid slug) has errors: %v", result.Errors)
		}
	})

	t.Run("invalid slug", func(t *testing.T) {
		result := Validate(SlugInput{Slug: "About Us"})
		if !result.HasErrors() {
			t.Error("Validate(invalid slug) should have errors")
		}
	})

	t.Run("valid URL", func(t *testing.T) {
		result := Validate(URLInput{URL: "https://example.com"})
		if result.HasErrors() {
			t.Errorf("Validate(valid URL) has errors: %v", result.Errors)
		}
	})

	t.Run("invalid URL", func(t *testing.T) {
		result := Validate(URLInput{URL: "ftp://example.com"})
		if !result.HasErrors() {
			t.Error("Validate(invalid URL) should have errors")
		}
	})
}

func TestValidate_FieldKeysUseJSONNames(t *testing.T) {
	type Input struct {
		FullName string  `json:"fullName" validate:"required,max=200" label:"Full name"`
		Track    string  `json:"track" validate:"required,oneof=technical business" label:"Track"`
		Amount   float64 `json:"amount" validate:"gt=0" label:"Amount"`
		Title    *string `json:"title" validate:"omitempty,min=1,max=20" label:"Title"`
	}

	empty := ""
	result := Validate(Input{Track: "art", Title: &empty})
	fields := result.Fields()

	want := map[string]string{
		"fullName": "Full name is required.",
		"track":    "Track must be one of: technical, business.",
		"amount":   "Amount must be greater than 0.",
		"title":    "Title is required.",
	}
	for k, msg := range want {
		if fields[k] != msg {
			t.Errorf("Fields()[%q] = %q, want %q", k, fields[k], msg)
		}
	}
	if len(fields) != len(want) {
		t.Errorf("Fields() has %d entries, want %d: %v", len(fields), len(want), fields)
	}
}

func TestValidate_NilPointerFieldsAreSkipped(t *testing.T) {
	type Patch struct {
		Status *string `json:"status" validate:"omitempty,oneof=new resolved" label:"Status"`
	}

	if r := Validate(Patch{}); r.HasErrors() {
		t.Errorf("nil field should be skipped, got %v", r.Errors)
	}
	bad := "closed"
	if r := Validate(&Patch{Status: &bad}); !r.HasErrors() {
		t.Error("unknown enum value should fail")
	}
}

func TestValidate_DatesAndFieldComparison(t *testing.T) {
	type Range struct {
		StartDate string `json:"startDate" validate:"required,datetime=2006-01-02" label:"Start date"`
		EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02,notbefore=StartDate" label:"End date"`
		CheckIn   string `json:"checkIn" validate:"omitempty,datetime=15:04" label:"Check-in"`
	}

	r := Validate(Range{StartDate: "2025-03-01", EndDate: "2025-02-01", CheckIn: "9am"})
	fields := r.Fields()
	if fields["endDate"] != "End date must not be before Start date." {
		t.Errorf("endDate message = %q", fields["endDate"])
	}
	if fields["checkIn"] != "Check-in must be a time (HH:MM)." {
		t.Errorf("checkIn message = %q", fields["checkIn"])
	}

	r = Validate(Range{StartDate: "03/01/2025", EndDate: "2025-03-02"})
	if r.Fields()["startDate"] != "Start date must be a date (YYYY-MM-DD)." {
		t.Errorf("startDate message = %q", r.Fields()["startDate"])
	}
}
