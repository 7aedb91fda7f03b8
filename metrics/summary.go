// Copyright 2024-2026
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexfdez1010/geometric-portfolio/dataframe"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
)

// NullableFloat serializes NaN as null so that summary tables with partially
// undefined metrics remain valid JSON
type NullableFloat float64

func (f NullableFloat) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

// Summary is a fixed set of named scalar statistics derived from one return
// series. It is immutable once computed and deterministic for a given input
type Summary struct {
	Name             string        `json:"name"`
	ArithmeticMean   NullableFloat `json:"arithmeticMean"`
	GeometricMean    NullableFloat `json:"geometricMean"`
	Volatility       NullableFloat `json:"volatility"`
	AnnualReturn     NullableFloat `json:"annualReturn"`
	AnnualVolatility NullableFloat `json:"annualVolatility"`
	Cagr             NullableFloat `json:"cagr"`
	SharpeRatio      NullableFloat `json:"sharpeRatio"`
	AlejandroRatio   NullableFloat `json:"alejandroRatio"`
	CalmarRatio      NullableFloat `json:"calmarRatio"`
	MaxDrawdown      NullableFloat `json:"maxDrawdown"`
	BestDay          NullableFloat `json:"bestDay"`
	BestDayDate      time.Time     `json:"bestDayDate"`
	WorstDay         NullableFloat `json:"worstDay"`
	WorstDayDate     time.Time     `json:"worstDayDate"`
	BestYear         NullableFloat `json:"bestYear"`
	BestYearNum      int           `json:"bestYearNum"`
	WorstYear        NullableFloat `json:"worstYear"`
	WorstYearNum     int           `json:"worstYearNum"`
}

// NewSummary computes every metric for the return series. riskFreeRate is an
// annual rate; periodsPerYear is typically 252 for daily data
func NewSummary(rs *dataframe.ReturnSeries, riskFreeRate float64, periodsPerYear int) *Summary {
	bestDay, bestDayDate := BestDay(rs)
	worstDay, worstDayDate := WorstDay(rs)
	bestYear, bestYearNum := BestYear(rs)
	worstYear, worstYearNum := WorstYear(rs)

	return &Summary{
		Name:             rs.Name,
		ArithmeticMean:   NullableFloat(ArithmeticMean(rs)),
		GeometricMean:    NullableFloat(GeometricMean(rs)),
		Volatility:       NullableFloat(Volatility(rs)),
		AnnualReturn:     NullableFloat(AnnualizedArithmeticMean(rs, periodsPerYear)),
		AnnualVolatility: NullableFloat(AnnualizedVolatility(rs, periodsPerYear)),
		Cagr:             NullableFloat(AnnualizedGeometricMean(rs, periodsPerYear)),
		SharpeRatio:      NullableFloat(SharpeRatio(rs, riskFreeRate, periodsPerYear)),
		AlejandroRatio:   NullableFloat(AlejandroRatio(rs, periodsPerYear)),
		CalmarRatio:      NullableFloat(CalmarRatio(rs, 1.0, periodsPerYear)),
		MaxDrawdown:      NullableFloat(MaxDrawdown(rs)),
		BestDay:          NullableFloat(bestDay),
		BestDayDate:      bestDayDate,
		WorstDay:         NullableFloat(worstDay),
		WorstDayDate:     worstDayDate,
		BestYear:         NullableFloat(bestYear),
		BestYearNum:      bestYearNum,
		WorstYear:        NullableFloat(worstYear),
		WorstYearNum:     worstYearNum,
	}
}

// FrameSummaries computes one summary per column of the return matrix, in
// column order
func FrameSummaries(df *dataframe.DataFrame, riskFreeRate float64, periodsPerYear int) []*Summary {
	series := df.Breakout()
	summaries := make([]*Summary, 0, df.ColCount())
	for _, colName := range df.ColNames {
		summaries = append(summaries, NewSummary(series[colName], riskFreeRate, periodsPerYear))
	}
	return summaries
}

// Rows returns the metrics as ordered (name, formatted value) pairs; the
// order is fixed and shared by every reporting surface
func (s *Summary) Rows() [][]string {
	fmtPct := func(v NullableFloat) string {
		if math.IsNaN(float64(v)) {
			return "undefined"
		}
		return fmt.Sprintf("%.2f%%", float64(v)*100)
	}
	fmtRatio := func(v NullableFloat) string {
		if math.IsNaN(float64(v)) {
			return "undefined"
		}
		return fmt.Sprintf("%.4f", float64(v))
	}

	return [][]string{
		{"Arithmetic Mean", fmtPct(s.ArithmeticMean)},
		{"Geometric Mean", fmtPct(s.GeometricMean)},
		{"Volatility", fmtPct(s.Volatility)},
		{"Annual Return", fmtPct(s.AnnualReturn)},
		{"Annual Volatility", fmtPct(s.AnnualVolatility)},
		{"CAGR", fmtPct(s.Cagr)},
		{"Sharpe Ratio", fmtRatio(s.SharpeRatio)},
		{"Alejandro Ratio", fmtRatio(s.AlejandroRatio)},
		{"Calmar Ratio", fmtRatio(s.CalmarRatio)},
		{"Max Drawdown", fmtPct(s.MaxDrawdown)},
		{"Best Day", fmt.Sprintf("%s (%s)", fmtPct(s.BestDay), s.BestDayDate.Format("2006-01-02"))},
		{"Worst Day", fmt.Sprintf("%s (%s)", fmtPct(s.WorstDay), s.WorstDayDate.Format("2006-01-02"))},
		{"Best Year", fmt.Sprintf("%s (%d)", fmtPct(s.BestYear), s.BestYearNum)},
		{"Worst Year", fmt.Sprintf("%s (%d)", fmtPct(s.WorstYear), s.WorstYearNum)},
	}
}

// Table prints an ASCII formatted metrics table
func (s *Summary) Table() string {
	sb := &strings.Builder{}
	table := tablewriter.NewWriter(sb)
	table.SetHeader([]string{"Metric", s.Name})
	table.SetBorder(false)
	table.AppendBulk(s.Rows())
	table.Render()
	return sb.String()
}
