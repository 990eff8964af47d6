package domain

// ComparisonInput holds the parameters shared by both strategies and the
// two down payments being compared.
type ComparisonInput struct {
	HomeCost             float64 `json:"home_cost" yaml:"home_cost"`
	AnnualRate           float64 `json:"annual_rate" yaml:"annual_rate"`
	Years                int     `json:"years" yaml:"years"`
	Savings              float64 `json:"savings" yaml:"savings"`
	InvestmentRate       float64 `json:"investment_rate" yaml:"investment_rate"`
	MonthlyCash          float64 `json:"monthly_cash" yaml:"monthly_cash"`
	HomeAppreciationRate float64 `json:"home_appreciation_rate" yaml:"home_appreciation_rate"`
	PaymentsPerYear      int     `json:"payments_per_year" yaml:"payments_per_year"`

	Scenario1DownPayment float64 `json:"s1_down_payment" yaml:"s1_down_payment"`
	Scenario2DownPayment float64 `json:"s2_down_payment" yaml:"s2_down_payment"`
}

// DefaultComparisonInput mirrors DefaultSimulationInputs.
func DefaultComparisonInput() ComparisonInput {
	return ComparisonInput{
		HomeAppreciationRate: DefaultHomeAppreciationRate,
		PaymentsPerYear:      DefaultPaymentsPerYear,
	}
}

// Scenario builds the SimulationInputs of scenario 1 or 2.
func (c ComparisonInput) Scenario(n int) SimulationInputs {
	down := c.Scenario1DownPayment
	if n == 2 {
		down = c.Scenario2DownPayment
	}
	return SimulationInputs{
		HomeCost:             c.HomeCost,
		DownPayment:          down,
		AnnualRate:           c.AnnualRate,
		Years:                c.Years,
		Savings:              c.Savings,
		InvestmentRate:       c.InvestmentRate,
		MonthlyCash:          c.MonthlyCash,
		HomeAppreciationRate: c.HomeAppreciationRate,
		PaymentsPerYear:      c.PaymentsPerYear,
	}
}

type ComparisonResult struct {
	Scenario1 SimulationResult `json:"scenario1"`
	Scenario2 SimulationResult `json:"scenario2"`
	// Scenario1ID and Scenario2ID are the history ids of the saved results.
	// Empty when saving failed.
	Scenario1ID string `json:"scenario1_id,omitempty"`
	Scenario2ID string `json:"scenario2_id,omitempty"`

	// WealthDifference is scenario 2's final combined wealth minus scenario 1's.
	WealthDifference float64 `json:"wealth_difference"`
	// Preferred is 1 or 2, or 0 when both end with the same wealth.
	Preferred int `json:"preferred"`
}
