package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/healthassist/triage-platform/pkg/logging"
)

type stubLister struct {
	appts []Appointment
	appt  *Appointment
	err   error

	gotLimit int
	gotID    string
}

func (s *stubLister) ListRecent(_ context.Context, limit int) ([]Appointment, error) {
	s.gotLimit = limit
	return s.appts, s.err
}

func (s *stubLister) GetByID(_ context.Context, id string) (*Appointment, error) {
	s.gotID = id
	return s.appt, s.err
}

func newAdminRouter(lister Lister) http.Handler {
	h := NewHandler(lister, logging.Default())
	r := chi.NewRouter()
	r.Get("/admin/appointments", h.List)
	r.Get("/admin/appointments/{bookingID}", h.Get)
	return r
}

func TestHandlerListDefaults(t *testing.T) {
	lister := &stubLister{appts: []Appointment{{ID: "bk-1", PatientName: "Asha Rao"}}}
	router := newAdminRouter(lister)

	req := httptest.NewRequest(http.MethodGet, "/admin/appointments", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if lister.gotLimit != 50 {
		t.Fatalf("expected default limit 50, got %d", lister.gotLimit)
	}
	var appts []Appointment
	if err := json.NewDecoder(rec.Body).Decode(&appts); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(appts) != 1 || appts[0].ID != "bk-1" {
		t.Fatalf("unexpected body: %+v", appts)
	}
}

func TestHandlerListCustomLimit(t *testing.T) {
	lister := &stubLister{}
	router := newAdminRouter(lister)

	req := httptest.NewRequest(http.MethodGet, "/admin/appointments?limit=5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if lister.gotLimit != 5 {
		t.Fatalf("expected limit 5, got %d", lister.gotLimit)
	}
}

func TestHandlerListRejectsBadLimit(t *testing.T) {
	router := newAdminRouter(&stubLister{})

	for _, raw := range []string{"abc", "-1", "0"} {
		req := httptest.NewRequest(http.MethodGet, "/admin/appointments?limit="+raw, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit %q: expected 400, got %d", raw, rec.Code)
		}
	}
}

func TestHandlerListEmptyIsJSONArray(t *testing.T) {
	router := newAdminRouter(&stubLister{})

	req := httptest.NewRequest(http.MethodGet, "/admin/appointments", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Body.String(); got != "[]\n" {
		t.Fatalf("expected empty JSON array, got %q", got)
	}
}

func TestHandlerGet(t *testing.T) {
	lister := &stubLister{appt: &Appointment{ID: "bk-1", Department: "Cardiology"}}
	router := newAdminRouter(lister)

	req := httptest.NewRequest(http.MethodGet, "/admin/appointments/bk-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if lister.gotID != "bk-1" {
		t.Fatalf("expected ID forwarded, got %q", lister.gotID)
	}
}

func TestHandlerGetNotFound(t *testing.T) {
	router := newAdminRouter(&stubLister{err: ErrNotFound})

	req := httptest.NewRequest(http.MethodGet, "/admin/appointments/ghost", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandlerGetInternalError(t *testing.T) {
	router := newAdminRouter(&stubLister{err: errors.New("db down")})

	req := httptest.NewRequest(http.MethodGet, "/admin/appointments/bk-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
