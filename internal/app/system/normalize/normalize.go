// internal/app/system/normalize/normalize.go
//
// Package normalize canonicalizes user-supplied strings before they are
// validated and stored.
package normalize

import (
	"regexp"
	"strings"
)

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a person or entity name, keeping its case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Status trims and lowercases an enum value.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a free-text search term.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Currency trims and uppercases an ISO-4217 code.
func Currency(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Filter treats "all" (any case) as no filter.
func Filter(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)
	slugDashes  = regexp.MustCompile(`-{2,}`)
)

// Slug lowercases s and collapses every run of non-alphanumerics into a
// single dash, e.g. "About Us!" -> "about-us".
func Slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalid.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
