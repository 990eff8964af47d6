package service

import (
	"fmt"
	"math"

	"emprunt/domain"
)

// periodState is the running state of one simulation. It is never shared
// between runs.
type periodState struct {
	balance             float64
	currentHomeValue    float64
	investmentPortfolio float64
	portfolioCapital    float64
	cumulativeInterest  float64
}

// periodRates are the per-period rates derived from the annual percentages.
type periodRates struct {
	mortgage     float64
	investment   float64
	appreciation float64
}

// Simulate runs the mortgage and the investment portfolio side by side for
// years*payments_per_year periods. It fails with an InvalidScenarioError
// before producing any period when the inputs are inconsistent.
func Simulate(in domain.SimulationInputs) (domain.SimulationResult, error) {
	payment, err := validateScenario(in)
	if err != nil {
		return domain.SimulationResult{}, err
	}

	ppy := float64(in.PaymentsPerYear)
	rates := periodRates{
		mortgage:     in.AnnualRate / 100 / ppy,
		investment:   in.InvestmentRate / 100 / ppy,
		appreciation: in.HomeAppreciationRate / 100 / ppy,
	}
	n := in.Years * in.PaymentsPerYear

	st := &periodState{
		balance:             in.HomeCost - in.DownPayment,
		currentHomeValue:    in.HomeCost,
		investmentPortfolio: in.Savings - in.DownPayment,
		portfolioCapital:    in.Savings - in.DownPayment,
	}

	schedule := make([]domain.PeriodRecord, 0, n)
	for period := 1; period <= n; period++ {
		step := st.advance(in, rates, payment)
		schedule = append(schedule, reconcile(in, period, payment, step, st))
	}

	return domain.SimulationResult{
		SimulationInputs: in,
		Principal:        in.HomeCost - in.DownPayment,
		Payment:          roundTo2Decimals(payment),
		TotalInterest:    roundTo2Decimals(st.cumulativeInterest),
		Schedule:         schedule,
	}, nil
}

// CalculatePayment returns the fixed periodic payment that amortizes
// principal over n periods at periodic rate r.
func CalculatePayment(principal, r float64, n int) float64 {
	if r == 0 {
		return principal / float64(n)
	}
	growth := math.Pow(1+r, float64(n))
	return principal * r * growth / (growth - 1)
}

// validateScenario returns the periodic payment of a consistent scenario.
func validateScenario(in domain.SimulationInputs) (float64, error) {
	principal := in.HomeCost - in.DownPayment
	if principal < 0 {
		return 0, &domain.InvalidScenarioError{
			Reason: domain.ReasonDownPaymentExceedsCost,
			Detail: fmt.Sprintf("down payment (%s) is greater than home cost (%s)",
				FormatMoney(in.DownPayment), FormatMoney(in.HomeCost)),
		}
	}
	if in.Years <= 0 || in.PaymentsPerYear <= 0 {
		return 0, &domain.InvalidScenarioError{
			Reason: domain.ReasonNonPositiveTerm,
			Detail: fmt.Sprintf("years (%d) and payments per year (%d) must be positive",
				in.Years, in.PaymentsPerYear),
		}
	}

	r := in.AnnualRate / 100 / float64(in.PaymentsPerYear)
	payment := CalculatePayment(principal, r, in.Years*in.PaymentsPerYear)

	if payment > in.MonthlyCash {
		return 0, &domain.InvalidScenarioError{
			Reason: domain.ReasonPaymentExceedsCash,
			Detail: fmt.Sprintf("monthly payment (%s) exceeds disposable monthly cash (%s)",
				FormatMoney(payment), FormatMoney(in.MonthlyCash)),
		}
	}
	if in.Savings < in.DownPayment {
		return 0, &domain.InvalidScenarioError{
			Reason: domain.ReasonInsufficientSavings,
			Detail: fmt.Sprintf("savings (%s) cannot be less than down payment (%s)",
				FormatMoney(in.Savings), FormatMoney(in.DownPayment)),
		}
	}
	return payment, nil
}

// periodStep holds the flows of a single period.
type periodStep struct {
	interest      float64
	principalPaid float64
}

// advance moves the state forward by one period.
//
// The loop never exits early: once the balance reaches zero the nominal
// payment is still withheld from the monthly cash, so only the leftover
// keeps flowing into the portfolio.
func (st *periodState) advance(in domain.SimulationInputs, rates periodRates, payment float64) periodStep {
	st.currentHomeValue *= 1 + rates.appreciation

	interest := st.balance * rates.mortgage
	st.cumulativeInterest += interest
	principalPaid := math.Min(st.balance, payment-interest)
	st.balance = math.Max(0, st.balance-principalPaid)

	investmentReturn := st.investmentPortfolio * rates.investment
	leftoverCash := in.MonthlyCash - payment
	st.investmentPortfolio += investmentReturn + leftoverCash
	st.portfolioCapital += leftoverCash

	return periodStep{interest: interest, principalPaid: principalPaid}
}

// reconcile derives the wealth breakdown for a period from the running
// state and freezes it into a rounded record.
func reconcile(in domain.SimulationInputs, period int, payment float64, step periodStep, st *periodState) domain.PeriodRecord {
	homeEquity := st.currentHomeValue - st.balance
	appreciation := st.currentHomeValue - in.HomeCost
	totalCashInjected := in.Savings + in.MonthlyCash*float64(period)
	investmentGains := st.investmentPortfolio - st.portfolioCapital
	investedCashNet := totalCashInjected - st.cumulativeInterest

	return domain.PeriodRecord{
		Period:              period,
		Payment:             roundTo2Decimals(payment),
		PrincipalPaid:       roundTo2Decimals(step.principalPaid),
		InterestPaid:        roundTo2Decimals(step.interest),
		CumulativeInterest:  roundTo2Decimals(st.cumulativeInterest),
		Balance:             roundTo2Decimals(st.balance),
		CurrentHomeValue:    roundTo2Decimals(st.currentHomeValue),
		HomeEquity:          roundTo2Decimals(homeEquity),
		HomeAppreciation:    roundTo2Decimals(appreciation),
		InvestmentPortfolio: roundTo2Decimals(st.investmentPortfolio),
		InvestmentGains:     roundTo2Decimals(investmentGains),
		PortfolioCapital:    roundTo2Decimals(st.portfolioCapital),
		TotalCashInjected:   roundTo2Decimals(totalCashInjected),
		InvestedCashNet:     roundTo2Decimals(investedCashNet),
		CombinedWealth:      roundTo2Decimals(homeEquity + st.investmentPortfolio),
	}
}
