package insurance

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/medicare/billing-console/pkg/dates"
	"github.com/medicare/billing-console/pkg/validate"
)

// ExpiryWindowDays is how far ahead a policy counts as expiring.
const ExpiryWindowDays = 30

// Status is the derived state of a policy relative to a point in time.
type Status string

const (
	StatusActive   Status = "active"
	StatusExpiring Status = "expiring"
	StatusExpired  Status = "expired"
	StatusUpcoming Status = "upcoming"
)

// Provider is an insurance company.
type Provider struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContactInfo string `json:"contactInfo"`
}

// Policy is an upstream insurance policy. Older endpoints identify a
// policy by a string id, newer ones by a numeric policyId.
type Policy struct {
	PolicyID           int64    `json:"policyId,omitempty"`
	ID                 string   `json:"id,omitempty"`
	ProviderID         string   `json:"providerId,omitempty"`
	PolicyNumber       string   `json:"policyNumber"`
	CoverageAmount     float64  `json:"coverageAmount"`
	CoveragePercentage *float64 `json:"coveragePercentage,omitempty"`
	ValidFrom          string   `json:"validFrom,omitempty"`
	ValidTo            string   `json:"validTo,omitempty"`
	IsActive           *bool    `json:"isActive,omitempty"`
}

// Key returns whichever identifier the upstream supplied.
func (p Policy) Key() string {
	if p.PolicyID != 0 {
		return strconv.FormatInt(p.PolicyID, 10)
	}
	return p.ID
}

// Percentage returns the coverage percentage or 0 when absent.
func (p Policy) Percentage() float64 {
	if p.CoveragePercentage == nil {
		return 0
	}
	return *p.CoveragePercentage
}

// StatusAt classifies p at now. Unparseable dates never make a policy
// expired or upcoming.
func StatusAt(p Policy, now time.Time) Status {
	to, toErr := dates.Parse(p.ValidTo)
	from, fromErr := dates.Parse(p.ValidFrom)

	switch {
	case toErr == nil && to.Before(now):
		return StatusExpired
	case fromErr == nil && from.After(now):
		return StatusUpcoming
	case toErr == nil:
		days := math.Ceil(to.Sub(now).Hours() / 24)
		if days > 0 && days <= ExpiryWindowDays {
			return StatusExpiring
		}
	}
	return StatusActive
}

// InForce reports whether the policy can cover a bill today.
func InForce(p Policy, now time.Time) bool {
	s := StatusAt(p, now)
	return s == StatusActive || s == StatusExpiring
}

// Counts summarises a policy list by status.
type Counts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Expiring int `json:"expiring"`
	Expired  int `json:"expired"`
	Upcoming int `json:"upcoming"`
}

func CountAt(policies []Policy, now time.Time) Counts {
	c := Counts{Total: len(policies)}
	for _, p := range policies {
		switch StatusAt(p, now) {
		case StatusActive:
			c.Active++
		case StatusExpiring:
			c.Expiring++
		case StatusExpired:
			c.Expired++
		case StatusUpcoming:
			c.Upcoming++
		}
	}
	return c
}

// Filter keeps policies whose number contains term (case-insensitive) and
// whose status matches. status "" or "all" matches everything.
func Filter(policies []Policy, term, status string, now time.Time) []Policy {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]Policy, 0, len(policies))
	for _, p := range policies {
		if term != "" && !strings.Contains(strings.ToLower(p.PolicyNumber), term) {
			continue
		}
		if status != "" && status != "all" && string(StatusAt(p, now)) != status {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ValidStatusFilter reports whether s is an accepted status filter value.
func ValidStatusFilter(s string) bool {
	switch Status(s) {
	case "", "all", StatusActive, StatusExpiring, StatusExpired, StatusUpcoming:
		return true
	}
	return false
}

// PolicyInput is the create/edit dialog payload.
type PolicyInput struct {
	PolicyNumber       string  `json:"policyNumber"`
	ProviderID         string  `json:"providerId,omitempty"`
	CoverageAmount     float64 `json:"coverageAmount,omitempty"`
	CoveragePercentage float64 `json:"coveragePercentage"`
	ValidFrom          string  `json:"validFrom"`
	ValidTo            string  `json:"validTo"`
}

func (in PolicyInput) Validate() error {
	var v validate.Errors
	v.Required("policyNumber", in.PolicyNumber)
	if !v.Has("policyNumber") {
		v.MinLen("policyNumber", in.PolicyNumber, 3)
	}
	v.Range("coveragePercentage", in.CoveragePercentage, 0, 100)
	v.Min("coverageAmount", in.CoverageAmount, 0)

	from, fromErr := parseRequired(&v, "validFrom", in.ValidFrom)
	to, toErr := parseRequired(&v, "validTo", in.ValidTo)
	if fromErr == nil && toErr == nil && to.Before(from) {
		v.Add("validTo", "must be on or after valid from")
	}
	return v.Err()
}

// Normalize trims the number and rewrites both dates as ISO dates. Call it
// only after Validate succeeded.
func (in PolicyInput) Normalize() PolicyInput {
	in.PolicyNumber = strings.TrimSpace(in.PolicyNumber)
	if t, err := dates.Parse(in.ValidFrom); err == nil {
		in.ValidFrom = t.Format(dates.ISODate)
	}
	if t, err := dates.Parse(in.ValidTo); err == nil {
		in.ValidTo = t.Format(dates.ISODate)
	}
	return in
}

func parseRequired(v *validate.Errors, field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "is required")
		return time.Time{}, fmt.Errorf("%s missing", field)
	}
	t, err := dates.Parse(value)
	if err != nil {
		v.Add(field, "must be a valid date")
	}
	return t, err
}

// AssignRequest links a policy to a patient.
type AssignRequest struct {
	PatientID int64 `json:"patientId"`
	PolicyID  int64 `json:"policyId"`
}

func (r AssignRequest) Validate() error {
	var v validate.Errors
	if r.PatientID <= 0 {
		v.Add("patientId", "is required")
	}
	if r.PolicyID <= 0 {
		v.Add("policyId", "is required")
	}
	return v.Err()
}
