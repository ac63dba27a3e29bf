package catalog

import (
	"strings"

	"github.com/medicare/billing-console/pkg/validate"
)

// Item is a billable service in the clinic catalog.
type Item struct {
	ServiceID   int64   `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	Cost        float64 `json:"cost"`
	IsActive    bool    `json:"isActive"`
}

// Input is the create/edit payload. A nil IsActive on create means active.
type Input struct {
	ServiceName string  `json:"serviceName"`
	Cost        float64 `json:"cost"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

func (in Input) Validate() error {
	var v validate.Errors
	v.Required("serviceName", in.ServiceName)
	if !v.Has("serviceName") {
		v.MinLen("serviceName", in.ServiceName, 3)
	}
	v.Min("cost", in.Cost, 0)
	return v.Err()
}

// item converts the form into the upstream body.
func (in Input) item() Item {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return Item{
		ServiceName: strings.TrimSpace(in.ServiceName),
		Cost:        in.Cost,
		IsActive:    active,
	}
}

// Active returns only the items that can be billed.
func Active(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.IsActive {
			out = append(out, it)
		}
	}
	return out
}

// Index maps service id to item.
func Index(items []Item) map[int64]Item {
	m := make(map[int64]Item, len(items))
	for _, it := range items {
		m[it.ServiceID] = it
	}
	return m
}
