package patient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/medicare/billing-console/internal/platform/apiclient"
)

func TestAPIRepo_ListAndCreate(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/patients":
			io.WriteString(w, `{"success":true,"data":[{"patientId":1,"fullName":"Ann","email":"a@b.co","mobile":"9876543210"}]}`)
		case r.Method == http.MethodPost && r.URL.Path == "/patients":
			b, _ := io.ReadAll(r.Body)
			gotBody = string(b)
			io.WriteString(w, `{"success":true,"message":"created","data":{"patientId":7,"fullName":"Ann"}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	repo := NewAPIRepo(apiclient.New(srv.URL))
	ctx := apiclient.WithToken(context.Background(), "tok")

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].FullName != "Ann" {
		t.Errorf("unexpected list: %+v", list)
	}

	p, err := repo.Create(ctx, Input{FullName: "Ann", Email: "a@b.co", Mobile: "9876543210"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.PatientID != 7 {
		t.Errorf("expected id 7, got %d", p.PatientID)
	}
	if !strings.Contains(gotBody, `"fullName":"Ann"`) {
		t.Errorf("unexpected request body: %s", gotBody)
	}
}

func TestAPIRepo_EmptyListIsNotNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"data":null}`)
	}))
	defer srv.Close()

	list, err := NewAPIRepo(apiclient.New(srv.URL)).List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list == nil {
		t.Error("expected empty slice, got nil")
	}
}
