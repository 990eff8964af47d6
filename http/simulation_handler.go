package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"emprunt/domain"
	"emprunt/repository"
	"emprunt/service"
)

const maxBodyBytes = 1 << 16

type SimulationHandler struct {
	service *service.MortgageService
	logger  *zap.Logger
}

func NewSimulationHandler(service *service.MortgageService, logger *zap.Logger) *SimulationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimulationHandler{service: service, logger: logger}
}

// Simulate handles POST /api/simulate.
func (h *SimulationHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}

	input := domain.DefaultSimulationInputs()
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&input); err != nil {
		h.logger.Debug("error decoding request body", zap.Error(err))
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Simulate(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, result)
}

// Compare handles POST /api/compare.
func (h *SimulationHandler) Compare(w http.ResponseWriter, r *http.Request) {
	result, ok := h.compare(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, result)
}

// Report handles POST /api/compare/report and answers with a PDF.
func (h *SimulationHandler) Report(w http.ResponseWriter, r *http.Request) {
	result, ok := h.compare(w, r)
	if !ok {
		return
	}

	pdf, err := service.ComparisonPDF(result)
	if err != nil {
		h.logger.Error("error generating pdf", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="mortgage-comparison.pdf"`)
	if _, err := w.Write(pdf); err != nil {
		h.logger.Warn("error writing pdf", zap.Error(err))
	}
}

// Chart handles POST /api/compare/chart and answers with a PNG.
func (h *SimulationHandler) Chart(w http.ResponseWriter, r *http.Request) {
	result, ok := h.compare(w, r)
	if !ok {
		return
	}

	img, err := service.WealthChart(result)
	if err != nil {
		h.logger.Error("error generating chart", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(img); err != nil {
		h.logger.Warn("error writing chart", zap.Error(err))
	}
}

// History handles GET /api/simulations/{id}.
func (h *SimulationHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/simulations/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	saved, err := h.service.History(id)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, h.logger, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, saved)
}

func (h *SimulationHandler) compare(w http.ResponseWriter, r *http.Request) (domain.ComparisonResult, bool) {
	if !requireJSON(w, r) {
		return domain.ComparisonResult{}, false
	}

	input := domain.DefaultComparisonInput()
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&input); err != nil {
		h.logger.Debug("error decoding request body", zap.Error(err))
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return domain.ComparisonResult{}, false
	}

	result, err := h.service.Compare(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return domain.ComparisonResult{}, false
	}
	return result, true
}
