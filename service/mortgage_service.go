package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"emprunt/domain"
	"emprunt/repository"
)

// ErrInputOutOfRange is returned for requests outside the configured limits.
var ErrInputOutOfRange = errors.New("input out of range")

// Limits bound the inputs accepted by MortgageService.
type Limits struct {
	MaxYears           int
	MaxPaymentsPerYear int
	MaxAmount          float64
	MaxRate            float64
}

func DefaultLimits() Limits {
	return Limits{
		MaxYears:           MaxYears,
		MaxPaymentsPerYear: MaxPaymentsPerYear,
		MaxAmount:          MaxAmount,
		MaxRate:            MaxRate,
	}
}

type Option func(*MortgageService)

func WithLimits(l Limits) Option {
	return func(s *MortgageService) { s.limits = l }
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(s *MortgageService) { s.cacheTTL = ttl }
}

type MortgageService struct {
	repo     repository.SimulationRepository
	cache    repository.CacheRepository
	logger   *zap.Logger
	limits   Limits
	cacheTTL time.Duration
}

// NewMortgageService creates a new MortgageService with the given repository and cache.
func NewMortgageService(
	repo repository.SimulationRepository,
	cache repository.CacheRepository,
	logger *zap.Logger,
	opts ...Option,
) *MortgageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &MortgageService{
		repo:     repo,
		cache:    cache,
		logger:   logger,
		limits:   DefaultLimits(),
		cacheTTL: DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate validates the request limits, runs the simulation (or reuses a
// cached run) and records it in the history.
func (s *MortgageService) Simulate(
	ctx context.Context,
	input domain.SimulationInputs,
) (domain.SavedSimulation, error) {
	if err := s.checkLimits(input); err != nil {
		return domain.SavedSimulation{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.SavedSimulation{}, err
	}

	result, err := s.simulateCached(ctx, input)
	if err != nil {
		return domain.SavedSimulation{}, err
	}

	saved := domain.SavedSimulation{SimulationResult: result}

	// Guardar el resultado (no crítico si falla)
	if s.repo != nil {
		id, err := s.repo.Save(input, result)
		if err != nil {
			s.logger.Warn("failed to save simulation", zap.Error(err))
		} else {
			saved.ID = id
		}
	}

	return saved, nil
}

// Compare runs both down payment scenarios concurrently. Either both
// results are returned or none.
func (s *MortgageService) Compare(
	ctx context.Context,
	input domain.ComparisonInput,
) (domain.ComparisonResult, error) {
	var results [2]domain.SavedSimulation

	g, gctx := errgroup.WithContext(ctx)
	for i := range results {
		scenario := i + 1
		g.Go(func() error {
			res, err := s.Simulate(gctx, input.Scenario(scenario))
			if err != nil {
				return fmt.Errorf("scenario %d: %w", scenario, err)
			}
			results[scenario-1] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.ComparisonResult{}, err
	}

	out := domain.ComparisonResult{
		Scenario1:   results[0].SimulationResult,
		Scenario2:   results[1].SimulationResult,
		Scenario1ID: results[0].ID,
		Scenario2ID: results[1].ID,
	}
	w1 := out.Scenario1.Final().CombinedWealth
	w2 := out.Scenario2.Final().CombinedWealth
	out.WealthDifference = roundTo2Decimals(w2 - w1)
	switch {
	case w1 > w2:
		out.Preferred = 1
	case w2 > w1:
		out.Preferred = 2
	}

	s.logger.Debug("comparison done",
		zap.Float64("s1_down_payment", input.Scenario1DownPayment),
		zap.Float64("s2_down_payment", input.Scenario2DownPayment),
		zap.Float64("wealth_difference", out.WealthDifference),
	)
	return out, nil
}

// History returns a previously saved simulation.
func (s *MortgageService) History(id string) (domain.SavedSimulation, error) {
	if s.repo == nil {
		return domain.SavedSimulation{}, repository.ErrNotFound
	}
	result, err := s.repo.Get(id)
	if err != nil {
		return domain.SavedSimulation{}, err
	}
	return domain.SavedSimulation{ID: id, SimulationResult: result}, nil
}

func (s *MortgageService) simulateCached(
	ctx context.Context,
	input domain.SimulationInputs,
) (domain.SimulationResult, error) {
	key := cacheKey(input)

	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var cached domain.SimulationResult
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				s.logger.Debug("simulation cache hit", zap.String("key", key))
				return cached, nil
			}
			s.logger.Warn("discarding unreadable cache entry", zap.String("key", key))
		}
	}

	result, err := Simulate(input)
	if err != nil {
		return domain.SimulationResult{}, err
	}

	if s.cache != nil {
		raw, err := json.Marshal(result)
		if err == nil {
			err = s.cache.Set(ctx, key, string(raw), s.cacheTTL)
		}
		if err != nil {
			s.logger.Warn("failed to cache simulation", zap.Error(err))
		}
	}

	return result, nil
}

// checkLimits rejects malformed or oversized requests. Consistency of the
// scenario itself is left to Simulate.
func (s *MortgageService) checkLimits(in domain.SimulationInputs) error {
	amounts := []struct {
		name  string
		value float64
	}{
		{"home_cost", in.HomeCost},
		{"down_payment", in.DownPayment},
		{"savings", in.Savings},
		{"monthly_cash", in.MonthlyCash},
	}
	for _, a := range amounts {
		if math.IsNaN(a.value) || a.value < 0 || a.value > s.limits.MaxAmount {
			return fmt.Errorf("%w: %s must be between 0 and %s", ErrInputOutOfRange, a.name, FormatMoney(s.limits.MaxAmount))
		}
	}

	if math.IsNaN(in.AnnualRate) || in.AnnualRate < 0 || in.AnnualRate > s.limits.MaxRate {
		return fmt.Errorf("%w: annual_rate must be between 0 and %.2f%%", ErrInputOutOfRange, s.limits.MaxRate)
	}
	// Rentabilidad y revalorización pueden ser negativas
	for name, rate := range map[string]float64{
		"investment_rate":        in.InvestmentRate,
		"home_appreciation_rate": in.HomeAppreciationRate,
	} {
		if math.IsNaN(rate) || math.Abs(rate) > s.limits.MaxRate {
			return fmt.Errorf("%w: %s must be within ±%.2f%%", ErrInputOutOfRange, name, s.limits.MaxRate)
		}
	}

	if in.Years > s.limits.MaxYears {
		return fmt.Errorf("%w: years exceeds the maximum of %d", ErrInputOutOfRange, s.limits.MaxYears)
	}
	if in.PaymentsPerYear > s.limits.MaxPaymentsPerYear {
		return fmt.Errorf("%w: payments_per_year exceeds the maximum of %d", ErrInputOutOfRange, s.limits.MaxPaymentsPerYear)
	}
	return nil
}

func cacheKey(in domain.SimulationInputs) string {
	return fmt.Sprintf("v1|%g|%g|%g|%d|%g|%g|%g|%g|%d",
		in.HomeCost, in.DownPayment, in.AnnualRate, in.Years, in.Savings,
		in.InvestmentRate, in.MonthlyCash, in.HomeAppreciationRate, in.PaymentsPerYear)
}
