package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"emprunt/domain"
	"emprunt/repository"
	"emprunt/service"
)

func newTestService() *service.MortgageService {
	return service.NewMortgageService(
		repository.NewSimulationRepositoryMemory(100, time.Hour),
		repository.NewMemoryCache(),
		nil,
	)
}

func postJSON(handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestSimulateHandler_OK(t *testing.T) {
	handler := NewSimulationHandler(newTestService(), nil)

	w := postJSON(handler.Simulate, "/api/simulate", `{
		"home_cost": 1000000,
		"down_payment": 200000,
		"annual_rate": 3.5,
		"years": 25,
		"savings": 500000,
		"investment_rate": 5.0,
		"monthly_cash": 6000
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var saved domain.SavedSimulation
	if err := json.NewDecoder(w.Body).Decode(&saved); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if saved.Payment <= 0 {
		t.Errorf("expected payment > 0")
	}
	if saved.PaymentsPerYear != 12 {
		t.Errorf("expected default payments per year, got %d", saved.PaymentsPerYear)
	}
	if len(saved.Schedule) != 300 {
		t.Errorf("expected 300 periods, got %d", len(saved.Schedule))
	}
	if saved.ID == "" {
		t.Errorf("expected an id")
	}
}

func TestSimulateHandler_InvalidScenario(t *testing.T) {
	handler := NewSimulationHandler(newTestService(), nil)

	w := postJSON(handler.Simulate, "/api/simulate", `{
		"home_cost": 100000,
		"down_payment": 120000,
		"annual_rate": 3.5,
		"years": 20,
		"savings": 130000,
		"investment_rate": 5.0,
		"monthly_cash": 1000
	}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Reason != domain.ReasonDownPaymentExceedsCost {
		t.Errorf("expected reason %q, got %q", domain.ReasonDownPaymentExceedsCost, resp.Reason)
	}
}

func TestSimulateHandler_ExplicitZeroPaymentsPerYear(t *testing.T) {
	handler := NewSimulationHandler(newTestService(), nil)

	w := postJSON(handler.Simulate, "/api/simulate", `{
		"home_cost": 100000, "down_payment": 20000, "annual_rate": 3.5,
		"years": 20, "savings": 30000, "investment_rate": 5, "monthly_cash": 1000,
		"payments_per_year": 0
	}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSimulateHandler_MethodNotAllowed(t *testing.T) {
	handler := NewSimulationHandler(newTestService(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/simulate", nil)
	w := httptest.NewRecorder()
	handler.Simulate(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestSimulateHandler_BadRequest(t *testing.T) {
	handler := NewSimulationHandler(newTestService(), nil)

	w := postJSON(handler.Simulate, "/api/simulate", `{invalid-json}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestSimulateHandler_UnsupportedMediaType(t *testing.T) {
	handler := NewSimulationHandler(newTestService(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/simulate", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	handler.Simulate(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Errorf("expected 415, got %d", w.Code)
	}
}

const compareBody = `{
	"home_cost": 500000,
	"annual_rate": 3.0,
	"years": 20,
	"savings": 600000,
	"investment_rate": 4.0,
	"monthly_cash": 3000,
	"s1_down_payment": 100000,
	"s2_down_payment": 400000
}`

func TestCompareHandler_OK(t *testing.T) {
	handler := NewSimulationHandler(newTestService(), nil)

	w := postJSON(handler.Compare, "/api/compare", compareBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result domain.ComparisonResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if result.Scenario1.Payment <= result.Scenario2.Payment {
		t.Errorf("expected scenario 1 to pay more per period")
	}
	if result.Preferred == 0 {
		t.Errorf("expected a preferred scenario")
	}
	if result.Scenario1ID == "" || result.Scenario2ID == "" {
		t.Fatalf("expected both scenario ids, got %q and %q", result.Scenario1ID, result.Scenario2ID)
	}

	for _, id := range []string{result.Scenario1ID, result.Scenario2ID} {
		req := httptest.NewRequest(http.MethodGet, "/api/simulations/"+id, nil)
		rec := httptest.NewRecorder()
		handler.History(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("expected saved scenario %s to be retrievable, got %d", id, rec.Code)
		}
	}
}

func TestReportHandler_PDF(t *testing.T) {
	handler := NewSimulationHandler(newTestService(), nil)

	w := postJSON(handler.Report, "/api/compare/report", compareBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Errorf("expected a PDF body")
	}
}

func TestChartHandler_PNG(t *testing.T) {
	handler := NewSimulationHandler(newTestService(), nil)

	w := postJSON(handler.Chart, "/api/compare/chart", compareBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
}

func TestHistoryHandler(t *testing.T) {
	svc := newTestService()
	handler := NewSimulationHandler(svc, nil)

	w := postJSON(handler.Simulate, "/api/simulate", `{
		"home_cost": 100000, "down_payment": 20000, "annual_rate": 3.5,
		"years": 20, "savings": 30000, "investment_rate": 5, "monthly_cash": 1000
	}`)
	var saved domain.SavedSimulation
	if err := json.NewDecoder(w.Body).Decode(&saved); err != nil {
		t.Fatalf("invalid response: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/simulations/"+saved.ID, nil)
	rec := httptest.NewRecorder()
	handler.History(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/simulations/unknown", nil)
	rec = httptest.NewRecorder()
	handler.History(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
