package http

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"emprunt/domain"
	"emprunt/service"
)

//go:embed templates/index.html
var indexTemplate string

// formValues keeps the raw submitted strings so they can be shown again
// next to an error.
type formValues struct {
	HomeCost             string
	AnnualRate           string
	Years                string
	Savings              string
	InvestmentRate       string
	MonthlyCash          string
	HomeAppreciationRate string
	S1DownPayment        string
	S2DownPayment        string
}

type pageData struct {
	Form   formValues
	Result *domain.ComparisonResult
	Error  string
}

type PageHandler struct {
	service *service.MortgageService
	logger  *zap.Logger
	tmpl    *template.Template
}

func NewPageHandler(svc *service.MortgageService, logger *zap.Logger) *PageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	tmpl := template.Must(template.New("index").Funcs(template.FuncMap{
		"money": service.FormatMoney,
		"cents": func(v float64) string { return fmt.Sprintf("€%.2f", v) },
		"inc":   func(i int) int { return i + 1 },
		"abs":   math.Abs,
		"scenarios": func(c *domain.ComparisonResult) []domain.SimulationResult {
			return []domain.SimulationResult{c.Scenario1, c.Scenario2}
		},
		"yearOf": func(period, ppy int) int {
			if ppy <= 0 {
				return 0
			}
			return period / ppy
		},
	}).Parse(indexTemplate))
	return &PageHandler{service: svc, logger: logger, tmpl: tmpl}
}

// Index handles GET /.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.render(w, pageData{})
}

// Submit handles the comparison form posted to /simulate.
func (h *PageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := formValues{
		HomeCost:             r.PostForm.Get("home_cost"),
		AnnualRate:           r.PostForm.Get("annual_rate"),
		Years:                r.PostForm.Get("years"),
		Savings:              r.PostForm.Get("savings"),
		InvestmentRate:       r.PostForm.Get("investment_rate"),
		MonthlyCash:          r.PostForm.Get("monthly_cash"),
		HomeAppreciationRate: r.PostForm.Get("home_appreciation_rate"),
		S1DownPayment:        r.PostForm.Get("s1_down_payment"),
		S2DownPayment:        r.PostForm.Get("s2_down_payment"),
	}

	input, err := parseComparisonForm(form)
	if err != nil {
		h.render(w, pageData{Form: form, Error: err.Error()})
		return
	}

	result, err := h.service.Compare(r.Context(), input)
	if err != nil {
		h.logger.Info("comparison rejected", zap.Error(err))
		h.render(w, pageData{Form: form, Error: err.Error()})
		return
	}
	h.render(w, pageData{Form: form, Result: &result})
}

func (h *PageHandler) render(w http.ResponseWriter, data pageData) {
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		h.logger.Error("error rendering page", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("error writing page", zap.Error(err))
	}
}

// parseComparisonForm converts the form strings. Money fields accept
// currency formatting; rates and years must be plain numbers.
func parseComparisonForm(f formValues) (domain.ComparisonInput, error) {
	in := domain.DefaultComparisonInput()
	in.HomeCost = service.ParseMoney(f.HomeCost)
	in.Savings = service.ParseMoney(f.Savings)
	in.MonthlyCash = service.ParseMoney(f.MonthlyCash)
	in.Scenario1DownPayment = service.ParseMoney(f.S1DownPayment)
	in.Scenario2DownPayment = service.ParseMoney(f.S2DownPayment)

	var err error
	if in.AnnualRate, err = parseRequiredFloat("annual_rate", f.AnnualRate); err != nil {
		return in, err
	}
	if in.InvestmentRate, err = parseRequiredFloat("investment_rate", f.InvestmentRate); err != nil {
		return in, err
	}
	if s := strings.TrimSpace(f.HomeAppreciationRate); s != "" {
		if in.HomeAppreciationRate, err = parseRequiredFloat("home_appreciation_rate", s); err != nil {
			return in, err
		}
	}
	years, err := strconv.Atoi(strings.TrimSpace(f.Years))
	if err != nil {
		return in, fmt.Errorf("years must be a whole number, got %q", f.Years)
	}
	in.Years = years
	return in, nil
}

func parseRequiredFloat(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", name, raw)
	}
	return v, nil
}
