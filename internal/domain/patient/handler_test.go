package patient

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHandler_List(t *testing.T) {
	h := NewHandler(newTestService(&mockRepo{patients: samplePatients()}))
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/patients?sort=-patientId&limit=2", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"total":3`) || !strings.Contains(body, `"has_more":true`) {
		t.Errorf("unexpected body: %s", body)
	}
	if strings.Index(body, `"patientId":3`) > strings.Index(body, `"patientId":2`) {
		t.Errorf("expected descending order: %s", body)
	}
}

func TestHandler_Create(t *testing.T) {
	h := NewHandler(newTestService(&mockRepo{}))
	e := echo.New()
	body := `{"fullName":"Ann Lee","email":"ann@example.com","mobile":"9876543210"}`
	req := httptest.NewRequest(http.MethodPost, "/api/patients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Patient created") {
		t.Errorf("expected success notice: %s", rec.Body.String())
	}
}

func TestHandler_GetInvalidID(t *testing.T) {
	h := NewHandler(newTestService(&mockRepo{}))
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.Get(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400 HTTPError, got %v", err)
	}
}

func TestHandler_Get(t *testing.T) {
	h := NewHandler(newTestService(&mockRepo{patients: samplePatients()}))
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("2")

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"fullName":"Bob Green"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
