package http

import (
	"net/http"

	"go.uber.org/zap"

	"emprunt/service"
)

// NewRouter wires every route behind the rate limiter and request logging.
func NewRouter(
	svc *service.MortgageService,
	limiter *RateLimiter,
	logger *zap.Logger,
) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	simulationHandler := NewSimulationHandler(svc, logger)
	pageHandler := NewPageHandler(svc, logger)

	limited := func(h http.HandlerFunc) http.Handler {
		return RateLimitMiddleware(limiter, logger, h)
	}

	mux := http.NewServeMux()
	mux.Handle("/", limited(pageHandler.Index))
	mux.Handle("/simulate", limited(pageHandler.Submit))
	mux.Handle("/api/simulate", limited(simulationHandler.Simulate))
	mux.Handle("/api/compare", limited(simulationHandler.Compare))
	mux.Handle("/api/compare/report", limited(simulationHandler.Report))
	mux.Handle("/api/compare/chart", limited(simulationHandler.Chart))
	mux.Handle("/api/simulations/", limited(simulationHandler.History))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	return RequestLogMiddleware(logger, mux)
}
