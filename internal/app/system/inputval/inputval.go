// internal/app/system/inputval/inputval.go
//
// Package inputval is the single validation boundary for procedure inputs.
// Input types declare their rules with `validate` struct tags and a
// human-readable `label`; Validate turns violations into per-field messages
// keyed by the field's JSON name.
package inputval

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError is one violated rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result holds every violation found by Validate.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r Result) All() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// Fields maps each failing field to its first message.
func (r Result) Fields() map[string]string {
	out := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Message
		}
	}
	return out
}

// Error makes a failing Result usable as an error.
func (r Result) Error() string { return r.All() }

var (
	once     sync.Once
	validate *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("email", func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		})
		_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
			return IsValidHTTPURL(fl.Field().String())
		})
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return IsValidSlug(fl.Field().String())
		})
		_ = v.RegisterValidation("notbefore", notBefore)
		validate = v
	})
	return validate
}

// Validate checks v (a struct or pointer to struct) against its tags.
func Validate(v any) Result {
	err := get().Struct(v)
	if err == nil {
		return Result{}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Result{Errors: []FieldError{{Message: "Invalid input."}}}
	}

	root := reflect.TypeOf(v)
	for root.Kind() == reflect.Ptr {
		root = root.Elem()
	}

	res := Result{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		parent, field := lookup(root, fe.StructNamespace())
		key, label := names(field)
		res.Errors = append(res.Errors, FieldError{
			Field:   key,
			Message: message(fe, label, parent),
		})
	}
	return res
}

// lookup walks a validator namespace ("Input.Inner.Field") back to the
// struct field it names, returning the containing struct type too.
func lookup(root reflect.Type, ns string) (reflect.Type, reflect.StructField) {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	t := root
	var sf reflect.StructField
	for i, p := range parts {
		if j := strings.IndexByte(p, '['); j >= 0 {
			p = p[:j]
		}
		f, ok := t.FieldByName(p)
		if !ok {
			return t, reflect.StructField{Name: p}
		}
		sf = f
		if i == len(parts)-1 {
			break
		}
		t = f.Type
		for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice || t.Kind() == reflect.Map {
			t = t.Elem()
		}
	}
	return t, sf
}

func names(f reflect.StructField) (key, label string) {
	key = f.Name
	if tag := f.Tag.Get("json"); tag != "" && tag != "-" {
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			key = name
		}
	}
	label = f.Tag.Get("label")
	if label == "" {
		label = f.Name
	}
	return key, label
}

func isText(k reflect.Kind) bool {
	return k == reflect.String || k == reflect.Slice || k == reflect.Map || k == reflect.Array
}

func message(fe validator.FieldError, label string, parent reflect.Type) string {
	param := fe.Param()
	text := isText(fe.Kind())

	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "email":
		return "A valid email address is required."
	case "url", "httpurl":
		return label + " must be a valid http(s) URL."
	case "slug":
		return label + " may only contain lowercase letters, digits and single dashes."
	case "iso4217":
		return label + " must be a three-letter currency code."
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", label, strings.Join(strings.Fields(param), ", "))
	case "datetime":
		switch param {
		case "2006-01-02":
			return label + " must be a date (YYYY-MM-DD)."
		case "15:04":
			return label + " must be a time (HH:MM)."
		}
		return fmt.Sprintf("%s must match the format %s.", label, param)
	case "min":
		if text {
			if param == "1" {
				return label + " is required."
			}
			return fmt.Sprintf("%s must be at least %s characters.", label, param)
		}
		return fmt.Sprintf("%s must be at least %s.", label, param)
	case "max":
		if text {
			return fmt.Sprintf("%s must be at most %s characters.", label, param)
		}
		return fmt.Sprintf("%s must be at most %s.", label, param)
	case "gte":
		return fmt.Sprintf("%s must be at least %s.", label, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", label, param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s.", label, param)
	case "lt":
		return fmt.Sprintf("%s must be less than %s.", label, param)
	case "notbefore":
		other := param
		if f, ok := parent.FieldByName(param); ok {
			_, other = names(f)
		}
		return fmt.Sprintf("%s must not be before %s.", label, other)
	}
	return label + " is invalid."
}

// notBefore compares two YYYY-MM-DD (or HH:MM) strings lexically. It passes
// when either side is empty or absent, so partial updates are not rejected.
func notBefore(fl validator.FieldLevel) bool {
	other, kind, _, ok := fl.GetStructFieldOKAdvanced2(fl.Parent(), fl.Param())
	if !ok || kind != reflect.String {
		return true
	}
	a, b := fl.Field().String(), other.String()
	if a == "" || b == "" {
		return true
	}
	return a >= b
}

// IsValidEmail accepts a bare addr-spec (no display name) with a sane local
// part and domain. Single-label domains are allowed.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 254 || strings.ContainsAny(s, " \t\r\n<>") {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	for _, part := range []string{s[:at], s[at+1:]} {
		if strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") || strings.Contains(part, "..") {
			return false
		}
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// IsValidHTTPURL accepts absolute http and https URLs with a host.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// IsValidSlug accepts lowercase-kebab identifiers such as "about-us".
func IsValidSlug(s string) bool {
	return slugRe.MatchString(s)
}
