package patient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/medicare/billing-console/pkg/pagination"
	"github.com/medicare/billing-console/pkg/validate"
)

type mockRepo struct {
	patients []Patient
	created  *Input
	listErr  error
}

func (m *mockRepo) List(context.Context) ([]Patient, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]Patient(nil), m.patients...), nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (*Patient, error) {
	for _, p := range m.patients {
		if p.PatientID == id {
			return &p, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockRepo) Create(_ context.Context, in Input) (*Patient, error) {
	m.created = &in
	return &Patient{PatientID: 99, FullName: in.FullName, Email: in.Email, Mobile: in.Mobile, DOB: in.DOB}, nil
}

func (m *mockRepo) Update(_ context.Context, id int64, in Input) (*Patient, error) {
	return &Patient{PatientID: id, FullName: in.FullName}, nil
}

func (m *mockRepo) Delete(context.Context, int64) error { return nil }

func fixedNow() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

func newTestService(repo Repository) *Service {
	s := NewService(repo)
	s.now = fixedNow
	return s
}

func samplePatients() []Patient {
	return []Patient{
		{PatientID: 3, FullName: "Carol White", Email: "carol@example.com", Mobile: "9000000003", DOB: "1990-02-01"},
		{PatientID: 1, FullName: "alice Brown", Email: "alice@example.com", Mobile: "9000000001", DOB: "1985-07-12"},
		{PatientID: 2, FullName: "Bob Green", Email: "bob@clinic.test", Mobile: "9000000002", DOB: "2001-11-30"},
	}
}

func TestInputValidate(t *testing.T) {
	tests := []struct {
		name   string
		in     Input
		fields []string
	}{
		{"valid", Input{FullName: "Ann", Email: "ann@example.com", Mobile: "9876543210"}, nil},
		{"valid display dob", Input{FullName: "Ann", Email: "ann@example.com", Mobile: "9876543210", DOB: "05-Mar-1990"}, nil},
		{"missing name", Input{Email: "ann@example.com", Mobile: "9876543210"}, []string{"fullName"}},
		{"bad email", Input{FullName: "Ann", Email: "ann", Mobile: "9876543210"}, []string{"email"}},
		{"short mobile", Input{FullName: "Ann", Email: "ann@example.com", Mobile: "12345"}, []string{"mobile"}},
		{"letters in mobile", Input{FullName: "Ann", Email: "ann@example.com", Mobile: "98765abcde"}, []string{"mobile"}},
		{"future dob", Input{FullName: "Ann", Email: "ann@example.com", Mobile: "9876543210", DOB: "2030-01-01"}, []string{"dob"}},
		{"garbage dob", Input{FullName: "Ann", Email: "ann@example.com", Mobile: "9876543210", DOB: "soon"}, []string{"dob"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate(fixedNow())
			if len(tt.fields) == 0 {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			var verr *validate.Errors
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			for _, f := range tt.fields {
				if !verr.Has(f) {
					t.Errorf("expected %s to fail, got %v", f, verr.Fields)
				}
			}
		})
	}
}

func TestService_CreateNormalizes(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), Input{FullName: "  Ann Lee ", Email: "ann@example.com", Mobile: "9876543210", DOB: "05-Mar-1990"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.created == nil {
		t.Fatal("expected repo.Create to be called")
	}
	if repo.created.FullName != "Ann Lee" {
		t.Errorf("expected trimmed name, got %q", repo.created.FullName)
	}
	if repo.created.DOB != "1990-03-05" {
		t.Errorf("expected ISO dob, got %q", repo.created.DOB)
	}
}

func TestService_CreateInvalidSkipsUpstream(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo)

	if _, err := svc.Create(context.Background(), Input{}); err == nil {
		t.Fatal("expected validation error")
	}
	if repo.created != nil {
		t.Error("invalid input must not reach upstream")
	}
}

func TestService_ListFilterSortPage(t *testing.T) {
	svc := newTestService(&mockRepo{patients: samplePatients()})
	ctx := context.Background()

	rows, total, err := svc.List(ctx, pagination.Params{Limit: 10, Sort: "fullName"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 || rows[0].FullName != "alice Brown" || rows[2].FullName != "Carol White" {
		t.Errorf("unexpected order: %+v", rows)
	}

	rows, total, _ = svc.List(ctx, pagination.Params{Limit: 10, Filter: "CLINIC"})
	if total != 1 || rows[0].PatientID != 2 {
		t.Errorf("expected bob only, got %+v", rows)
	}

	rows, total, _ = svc.List(ctx, pagination.Params{Limit: 2, Offset: 2, Sort: "patientId", Desc: true})
	if total != 3 || len(rows) != 1 || rows[0].PatientID != 1 {
		t.Errorf("expected last page with patient 1, got %+v", rows)
	}
}

func TestService_ListError(t *testing.T) {
	svc := newTestService(&mockRepo{listErr: errors.New("down")})
	if _, _, err := svc.List(context.Background(), pagination.Params{Limit: 10}); err == nil {
		t.Fatal("expected error")
	}
}

func TestSort_UnknownFieldKeepsOrder(t *testing.T) {
	rows := samplePatients()
	Sort(rows, "email", false)
	if rows[0].PatientID != 3 {
		t.Errorf("expected upstream order to be kept, got %+v", rows)
	}
}
