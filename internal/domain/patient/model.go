package patient

import (
	"strings"
	"time"

	"github.com/medicare/billing-console/pkg/dates"
	"github.com/medicare/billing-console/pkg/validate"
)

// Patient is the upstream patient record.
type Patient struct {
	PatientID int64  `json:"patientId"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Mobile    string `json:"mobile"`
	DOB       string `json:"dob,omitempty"`
}

// Input is the create/edit form payload.
type Input struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	DOB      string `json:"dob"`
}

// Normalize trims the fields and rewrites DOB as an ISO date. It must be
// called after Validate succeeded.
func (in Input) Normalize() Input {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Mobile = strings.TrimSpace(in.Mobile)
	if t, err := dates.ParseOptional(in.DOB); err == nil && t != nil {
		in.DOB = t.Format(dates.ISODate)
	} else {
		in.DOB = ""
	}
	return in
}

// Validate checks the form. now bounds the date of birth.
func (in Input) Validate(now time.Time) error {
	var v validate.Errors
	v.Required("fullName", in.FullName)
	v.Email("email", strings.TrimSpace(in.Email))
	v.Digits("mobile", strings.TrimSpace(in.Mobile), 10)

	dob, err := dates.ParseOptional(in.DOB)
	switch {
	case err != nil:
		v.Add("dob", "must be a valid date")
	case dob != nil && dob.After(now):
		v.Add("dob", "cannot be in the future")
	}
	return v.Err()
}
