package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"emprunt/domain"
	"emprunt/repository"
)

type MockSimulationRepository struct {
	mu         sync.Mutex
	SaveCalls  int
	ForceError bool
	saved      map[string]domain.SimulationResult
}

func (m *MockSimulationRepository) Save(
	input domain.SimulationInputs,
	result domain.SimulationResult,
) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls++
	if m.ForceError {
		return "", errors.New("save error")
	}
	if m.saved == nil {
		m.saved = make(map[string]domain.SimulationResult)
	}
	id := fmt.Sprintf("sim-%d", m.SaveCalls)
	m.saved[id] = result
	return id, nil
}

func (m *MockSimulationRepository) Get(id string) (domain.SimulationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, ok := m.saved[id]
	if !ok {
		return domain.SimulationResult{}, repository.ErrNotFound
	}
	return res, nil
}

// countingCache wraps MemoryCache and counts hits.
type countingCache struct {
	*repository.MemoryCache
	mu   sync.Mutex
	hits int
}

func (c *countingCache) Get(ctx context.Context, key string) (string, bool) {
	v, ok := c.MemoryCache.Get(ctx, key)
	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
	}
	return v, ok
}

func comparisonInput() domain.ComparisonInput {
	in := domain.DefaultComparisonInput()
	in.HomeCost = 500000
	in.AnnualRate = 3.0
	in.Years = 20
	in.Savings = 600000
	in.InvestmentRate = 4.0
	in.MonthlyCash = 3000
	in.Scenario1DownPayment = 100000
	in.Scenario2DownPayment = 400000
	return in
}

func TestMortgageService_Simulate(t *testing.T) {
	mockRepo := &MockSimulationRepository{}
	service := NewMortgageService(mockRepo, repository.NewMemoryCache(), nil)

	saved, err := service.Simulate(context.Background(), baseInputs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if saved.ID == "" {
		t.Errorf("expected an id for the saved simulation")
	}
	if len(saved.Schedule) != 240 {
		t.Errorf("expected 240 periods, got %d", len(saved.Schedule))
	}
	if mockRepo.SaveCalls != 1 {
		t.Errorf("expected repository Save to be called once, got %d", mockRepo.SaveCalls)
	}

	history, err := service.History(saved.ID)
	if err != nil {
		t.Fatalf("unexpected history error: %v", err)
	}
	if history.Payment != saved.Payment {
		t.Errorf("expected history to return the same result")
	}
}

func TestMortgageService_SaveErrorIsNotFatal(t *testing.T) {
	mockRepo := &MockSimulationRepository{ForceError: true}
	service := NewMortgageService(mockRepo, nil, nil)

	saved, err := service.Simulate(context.Background(), baseInputs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ID != "" {
		t.Errorf("expected no id when save fails, got %q", saved.ID)
	}
}

func TestMortgageService_UsesCache(t *testing.T) {
	cache := &countingCache{MemoryCache: repository.NewMemoryCache()}
	service := NewMortgageService(&MockSimulationRepository{}, cache, nil, WithCacheTTL(time.Minute))

	first, err := service.Simulate(context.Background(), baseInputs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := service.Simulate(context.Background(), baseInputs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cache.hits != 1 {
		t.Errorf("expected one cache hit, got %d", cache.hits)
	}
	if first.Final() != second.Final() || len(first.Schedule) != len(second.Schedule) {
		t.Errorf("expected cached result to match the computed one")
	}
	if first.SimulationInputs != second.SimulationInputs {
		t.Errorf("expected cached inputs to match")
	}
}

func TestMortgageService_InvalidScenarioNotSaved(t *testing.T) {
	mockRepo := &MockSimulationRepository{}
	cache := repository.NewMemoryCache()
	service := NewMortgageService(mockRepo, cache, nil)

	in := baseInputs()
	in.DownPayment = 200000

	_, err := service.Simulate(context.Background(), in)
	if !errors.Is(err, domain.ErrInvalidScenario) {
		t.Fatalf("expected ErrInvalidScenario, got %v", err)
	}
	if mockRepo.SaveCalls != 0 {
		t.Errorf("repository Save should NOT be called")
	}
	if cache.Len() != 0 {
		t.Errorf("expected nothing cached")
	}
}

func TestMortgageService_Limits(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*domain.SimulationInputs)
	}{
		{"too many years", func(in *domain.SimulationInputs) { in.Years = 51 }},
		{"too many payments", func(in *domain.SimulationInputs) { in.PaymentsPerYear = 365 }},
		{"negative home cost", func(in *domain.SimulationInputs) { in.HomeCost = -1 }},
		{"negative rate", func(in *domain.SimulationInputs) { in.AnnualRate = -1 }},
		{"huge investment rate", func(in *domain.SimulationInputs) { in.InvestmentRate = 1000 }},
		{"amount too large", func(in *domain.SimulationInputs) { in.Savings = 2e9 }},
	}

	service := NewMortgageService(&MockSimulationRepository{}, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInputs()
			tt.modify(&in)
			_, err := service.Simulate(context.Background(), in)
			if !errors.Is(err, ErrInputOutOfRange) {
				t.Errorf("expected ErrInputOutOfRange, got %v", err)
			}
		})
	}
}

func TestMortgageService_ZeroYearsReachesValidation(t *testing.T) {
	service := NewMortgageService(&MockSimulationRepository{}, nil, nil)

	in := baseInputs()
	in.Years = 0
	_, err := service.Simulate(context.Background(), in)

	var invalid *domain.InvalidScenarioError
	if !errors.As(err, &invalid) || invalid.Reason != domain.ReasonNonPositiveTerm {
		t.Errorf("expected non-positive term, got %v", err)
	}
}

func TestMortgageService_Compare(t *testing.T) {
	mockRepo := &MockSimulationRepository{}
	service := NewMortgageService(mockRepo, repository.NewMemoryCache(), nil)

	result, err := service.Compare(context.Background(), comparisonInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Scenario1.DownPayment != 100000 || result.Scenario2.DownPayment != 400000 {
		t.Errorf("scenarios out of order: %.0f, %.0f",
			result.Scenario1.DownPayment, result.Scenario2.DownPayment)
	}
	if result.Scenario1.Payment <= result.Scenario2.Payment {
		t.Errorf("expected scenario 1 payment to be higher")
	}

	w1 := result.Scenario1.Final().CombinedWealth
	w2 := result.Scenario2.Final().CombinedWealth
	if result.WealthDifference != roundTo2Decimals(w2-w1) {
		t.Errorf("expected difference %.2f, got %.2f", w2-w1, result.WealthDifference)
	}
	expectedPreferred := 1
	if w2 > w1 {
		expectedPreferred = 2
	}
	if result.Preferred != expectedPreferred {
		t.Errorf("expected preferred %d, got %d", expectedPreferred, result.Preferred)
	}
	if result.Scenario1ID == "" || result.Scenario1ID == result.Scenario2ID {
		t.Fatalf("expected two distinct scenario ids, got %q and %q", result.Scenario1ID, result.Scenario2ID)
	}
	saved1, err := service.History(result.Scenario1ID)
	if err != nil {
		t.Fatalf("scenario 1 not retrievable: %v", err)
	}
	saved2, err := service.History(result.Scenario2ID)
	if err != nil {
		t.Fatalf("scenario 2 not retrievable: %v", err)
	}
	if saved1.DownPayment != 100000 || saved2.DownPayment != 400000 {
		t.Errorf("history ids point at the wrong scenarios: %.0f, %.0f",
			saved1.DownPayment, saved2.DownPayment)
	}
}

func TestMortgageService_CompareWithoutHistory(t *testing.T) {
	service := NewMortgageService(&MockSimulationRepository{ForceError: true}, nil, nil)

	result, err := service.Compare(context.Background(), comparisonInput())
	if err != nil {
		t.Fatalf("a failed save must not fail the comparison: %v", err)
	}
	if result.Scenario1ID != "" || result.Scenario2ID != "" {
		t.Errorf("expected no ids when saving fails, got %q and %q", result.Scenario1ID, result.Scenario2ID)
	}
}

func TestMortgageService_CompareFailsAtomically(t *testing.T) {
	service := NewMortgageService(&MockSimulationRepository{}, nil, nil)

	in := comparisonInput()
	in.Scenario2DownPayment = 700000

	result, err := service.Compare(context.Background(), in)
	if !errors.Is(err, domain.ErrInvalidScenario) {
		t.Fatalf("expected ErrInvalidScenario, got %v", err)
	}
	if len(result.Scenario1.Schedule) != 0 || len(result.Scenario2.Schedule) != 0 {
		t.Errorf("expected no partial comparison")
	}
}

func TestMortgageService_CanceledContext(t *testing.T) {
	service := NewMortgageService(&MockSimulationRepository{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := service.Simulate(ctx, baseInputs()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
