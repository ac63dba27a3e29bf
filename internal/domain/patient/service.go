package patient

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/medicare/billing-console/pkg/pagination"
)

// SortFields are the columns the patient table can be ordered by.
var SortFields = []string{"fullName", "mobile", "dob", "patientId"}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List fetches all patients and applies filter, sort and paging locally,
// the way the table does. It returns the page and the filtered total.
func (s *Service) List(ctx context.Context, p pagination.Params) ([]Patient, int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	rows := Filter(all, p.Filter)
	Sort(rows, p.Sort, p.Desc)
	return pagination.Page(rows, p), len(rows), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (*Patient, error) {
	if err := in.Validate(s.now()); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, in.Normalize())
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*Patient, error) {
	if err := in.Validate(s.now()); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, in.Normalize())
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Filter keeps patients whose name, email or mobile contains term,
// ignoring case. An empty term keeps everything.
func Filter(patients []Patient, term string) []Patient {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]Patient, 0, len(patients))
	for _, p := range patients {
		if term == "" ||
			strings.Contains(strings.ToLower(p.FullName), term) ||
			strings.Contains(strings.ToLower(p.Email), term) ||
			strings.Contains(p.Mobile, term) {
			out = append(out, p)
		}
	}
	return out
}

// Sort orders patients in place by one of SortFields. Unknown fields keep
// the upstream order.
func Sort(patients []Patient, field string, desc bool) {
	var less func(a, b Patient) bool
	switch field {
	case "fullName":
		less = func(a, b Patient) bool { return strings.ToLower(a.FullName) < strings.ToLower(b.FullName) }
	case "mobile":
		less = func(a, b Patient) bool { return a.Mobile < b.Mobile }
	case "dob":
		less = func(a, b Patient) bool { return a.DOB < b.DOB }
	case "patientId":
		less = func(a, b Patient) bool { return a.PatientID < b.PatientID }
	default:
		return
	}
	sort.SliceStable(patients, func(i, j int) bool {
		if desc {
			return less(patients[j], patients[i])
		}
		return less(patients[i], patients[j])
	})
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
