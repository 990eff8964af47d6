package service

import (
	"errors"
	"fmt"

	"github.com/vicanso/go-charts/v2"

	"emprunt/domain"
)

// WealthChart renders the year-end combined wealth of both scenarios as a
// PNG line chart.
func WealthChart(result domain.ComparisonResult) ([]byte, error) {
	y1 := result.Scenario1.YearEnds()
	y2 := result.Scenario2.YearEnds()
	if len(y1) == 0 || len(y1) != len(y2) {
		return nil, errors.New("not enough data points")
	}

	labels := make([]string, len(y1))
	s1 := make([]float64, len(y1))
	s2 := make([]float64, len(y2))
	yMin, yMax := y1[0].CombinedWealth, y1[0].CombinedWealth
	for i := range y1 {
		labels[i] = fmt.Sprintf("Y%d", i+1)
		s1[i] = y1[i].CombinedWealth
		s2[i] = y2[i].CombinedWealth
		for _, v := range []float64{s1[i], s2[i]} {
			if v < yMin {
				yMin = v
			}
			if v > yMax {
				yMax = v
			}
		}
	}
	pad := (yMax - yMin) * 0.05
	if pad == 0 {
		pad = 1
	}
	yMin -= pad
	yMax += pad

	split := len(labels) / 2
	if split < 2 {
		split = 2
	}
	if split > 10 {
		split = 10
	}

	title := fmt.Sprintf("Combined wealth • %s vs %s down",
		FormatMoney(result.Scenario1.DownPayment), FormatMoney(result.Scenario2.DownPayment))

	p, err := charts.LineRender(
		[][]float64{s1, s2},
		charts.TitleTextOptionFunc(title),
		charts.LegendLabelsOptionFunc([]string{"Scenario 1", "Scenario 2"}, charts.PositionRight),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			SplitNumber: split,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}
