package validate

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
)

// Errors collects field-level validation failures. The zero value is ready
// to use; a nil *Errors means "valid".
type Errors struct {
	Fields map[string]string `json:"fields"`
}

func (e *Errors) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return strings.Join(parts, "; ")
}

// Add records msg for field. The first message per field wins.
func (e *Errors) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Has reports whether field already failed.
func (e *Errors) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// Err returns e as an error, or nil when nothing was recorded.
func (e *Errors) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *Errors) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, "is required")
	}
}

func (e *Errors) MinLen(field, value string, n int) {
	if len(strings.TrimSpace(value)) < n {
		e.Add(field, fmt.Sprintf("must be at least %d characters", n))
	}
}

func (e *Errors) Email(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, "is required")
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || !strings.Contains(value, "@") {
		e.Add(field, "must be a valid email address")
	}
}

// Digits checks that value consists of exactly n ASCII digits.
func (e *Errors) Digits(field, value string, n int) {
	if len(value) != n {
		e.Add(field, fmt.Sprintf("must be %d digits", n))
		return
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			e.Add(field, fmt.Sprintf("must be %d digits", n))
			return
		}
	}
}

func (e *Errors) Range(field string, v, lo, hi float64) {
	if v < lo || v > hi {
		e.Add(field, fmt.Sprintf("must be between %g and %g", lo, hi))
	}
}

func (e *Errors) Min(field string, v, lo float64) {
	if v < lo {
		e.Add(field, fmt.Sprintf("must be at least %g", lo))
	}
}

func (e *Errors) OneOf(field, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	e.Add(field, fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")))
}
