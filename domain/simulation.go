package domain

// Default values applied when a caller omits them.
const (
	DefaultHomeAppreciationRate = 0.0
	DefaultPaymentsPerYear      = 12
)

// SimulationInputs describes one financing strategy. Rates are annual
// percentages (3.5 means 3.5%).
type SimulationInputs struct {
	HomeCost             float64 `json:"home_cost" yaml:"home_cost"`
	DownPayment          float64 `json:"down_payment" yaml:"down_payment"`
	AnnualRate           float64 `json:"annual_rate" yaml:"annual_rate"`
	Years                int     `json:"years" yaml:"years"`
	Savings              float64 `json:"savings" yaml:"savings"`
	InvestmentRate       float64 `json:"investment_rate" yaml:"investment_rate"`
	MonthlyCash          float64 `json:"monthly_cash" yaml:"monthly_cash"`
	HomeAppreciationRate float64 `json:"home_appreciation_rate" yaml:"home_appreciation_rate"`
	PaymentsPerYear      int     `json:"payments_per_year" yaml:"payments_per_year"`
}

// DefaultSimulationInputs returns inputs with the optional fields preset.
// Decoders start from it so omitted fields keep their defaults while an
// explicit zero is still seen (and rejected) by validation.
func DefaultSimulationInputs() SimulationInputs {
	return SimulationInputs{
		HomeAppreciationRate: DefaultHomeAppreciationRate,
		PaymentsPerYear:      DefaultPaymentsPerYear,
	}
}

// PeriodRecord is the snapshot emitted after each period. Money fields are
// rounded to cents.
type PeriodRecord struct {
	Period              int     `json:"period"`
	Payment             float64 `json:"payment"`
	PrincipalPaid       float64 `json:"principal_paid"`
	InterestPaid        float64 `json:"interest_paid"`
	CumulativeInterest  float64 `json:"cumulative_interest"`
	Balance             float64 `json:"balance"`
	CurrentHomeValue    float64 `json:"current_home_value"`
	HomeEquity          float64 `json:"home_equity"`
	HomeAppreciation    float64 `json:"home_appreciation"`
	InvestmentPortfolio float64 `json:"investment_portfolio"`
	InvestmentGains     float64 `json:"investment_gains"`
	PortfolioCapital    float64 `json:"portfolio_capital"`
	TotalCashInjected   float64 `json:"total_cash_injected"`
	InvestedCashNet     float64 `json:"invested_cash_net"`
	CombinedWealth      float64 `json:"combined_wealth"`
}

type SimulationResult struct {
	SimulationInputs

	Principal     float64        `json:"principal"`
	Payment       float64        `json:"payment"`
	TotalInterest float64        `json:"total_interest"`
	Schedule      []PeriodRecord `json:"schedule"`
}

// Final returns the last period of the schedule, or the zero record when
// the schedule is empty.
func (r SimulationResult) Final() PeriodRecord {
	if len(r.Schedule) == 0 {
		return PeriodRecord{}
	}
	return r.Schedule[len(r.Schedule)-1]
}

// YearEnds returns the records that close each year of the term.
func (r SimulationResult) YearEnds() []PeriodRecord {
	ppy := r.PaymentsPerYear
	if ppy <= 0 {
		return nil
	}
	out := make([]PeriodRecord, 0, len(r.Schedule)/ppy)
	for _, rec := range r.Schedule {
		if rec.Period%ppy == 0 {
			out = append(out, rec)
		}
	}
	return out
}

// SavedSimulation is a result stored in the history under ID.
type SavedSimulation struct {
	ID string `json:"id,omitempty"`
	SimulationResult
}
