package service

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"emprunt/domain"
)

// scenarioFile is the on-disk shape of a comparison. Money fields are
// strings so files may use "€450,000" style amounts.
type scenarioFile struct {
	HomeCost             string   `yaml:"home_cost"`
	AnnualRate           float64  `yaml:"annual_rate"`
	Years                int      `yaml:"years"`
	Savings              string   `yaml:"savings"`
	InvestmentRate       float64  `yaml:"investment_rate"`
	MonthlyCash          string   `yaml:"monthly_cash"`
	HomeAppreciationRate *float64 `yaml:"home_appreciation_rate"`
	PaymentsPerYear      *int     `yaml:"payments_per_year"`
	Scenario1DownPayment string   `yaml:"s1_down_payment"`
	Scenario2DownPayment string   `yaml:"s2_down_payment"`
}

// LoadComparisonFile reads a ComparisonInput from a YAML file.
func LoadComparisonFile(path string) (domain.ComparisonInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ComparisonInput{}, fmt.Errorf("read scenario file: %w", err)
	}
	return ParseComparisonYAML(data)
}

// ParseComparisonYAML decodes a comparison, applying defaults for the
// optional fields the document leaves out.
func ParseComparisonYAML(data []byte) (domain.ComparisonInput, error) {
	var f scenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.ComparisonInput{}, fmt.Errorf("parse scenario file: %w", err)
	}

	in := domain.DefaultComparisonInput()
	in.HomeCost = ParseMoney(f.HomeCost)
	in.AnnualRate = f.AnnualRate
	in.Years = f.Years
	in.Savings = ParseMoney(f.Savings)
	in.InvestmentRate = f.InvestmentRate
	in.MonthlyCash = ParseMoney(f.MonthlyCash)
	in.Scenario1DownPayment = ParseMoney(f.Scenario1DownPayment)
	in.Scenario2DownPayment = ParseMoney(f.Scenario2DownPayment)
	if f.HomeAppreciationRate != nil {
		in.HomeAppreciationRate = *f.HomeAppreciationRate
	}
	if f.PaymentsPerYear != nil {
		in.PaymentsPerYear = *f.PaymentsPerYear
	}
	return in, nil
}
