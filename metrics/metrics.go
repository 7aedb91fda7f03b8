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

// Package metrics computes statistical measures over a daily return series.
// Every function is pure; numerically undefined results are reported as
// math.NaN() so that callers can aggregate partial results without special
// casing.
//
// Conventions used throughout (applied uniformly so ratios stay comparable):
//   - annualized arithmetic mean compounds the simple mean:
//     (1+mean(r))^P - 1
//   - max drawdown is reported as a positive magnitude (loss depth)
//
// Precondition: period returns are fractional losses greater than -100%;
// a value of 1+r <= 0 makes the geometric mean undefined and yields NaN.
package metrics

import (
	"math"
	"time"

	"github.com/alexfdez1010/geometric-portfolio/dataframe"

	"gonum.org/v1/gonum/stat"
)

// ArithmeticMean calculates the simple mean of daily returns
func ArithmeticMean(rs *dataframe.ReturnSeries) float64 {
	if rs.Len() == 0 {
		return math.NaN()
	}

	return stat.Mean(rs.Vals, nil)
}

// AnnualizedArithmeticMean compounds the simple mean of daily returns to an
// annualized figure
func AnnualizedArithmeticMean(rs *dataframe.ReturnSeries, periodsPerYear int) float64 {
	return math.Pow(1.0+ArithmeticMean(rs), float64(periodsPerYear)) - 1.0
}

// GeometricMean calculates the compound average of daily returns:
// prod(1+r)^(1/n) - 1, computed through log1p for numerical stability
func GeometricMean(rs *dataframe.ReturnSeries) float64 {
	if rs.Len() == 0 {
		return math.NaN()
	}

	sumLog := 0.0
	for _, r := range rs.Vals {
		if (1.0 + r) <= 0 {
			return math.NaN()
		}
		sumLog += math.Log1p(r)
	}

	return math.Expm1(sumLog / float64(rs.Len()))
}

// AnnualizedGeometricMean calculates the annualized compound growth rate:
// prod(1+r)^(P/n) - 1
func AnnualizedGeometricMean(rs *dataframe.ReturnSeries, periodsPerYear int) float64 {
	daily := GeometricMean(rs)
	return math.Pow(1.0+daily, float64(periodsPerYear)) - 1.0
}

// Volatility calculates the sample standard deviation (ddof=1) of daily returns
func Volatility(rs *dataframe.ReturnSeries) float64 {
	if rs.Len() < 2 {
		return math.NaN()
	}

	return math.Sqrt(stat.Variance(rs.Vals, nil))
}

// AnnualizedVolatility scales the sample standard deviation by sqrt(P)
func AnnualizedVolatility(rs *dataframe.ReturnSeries, periodsPerYear int) float64 {
	return Volatility(rs) * math.Sqrt(float64(periodsPerYear))
}

// SharpeRatio calculates the annualized sharpe ratio of the return series.
// riskFreeRate is an annual rate. Returns NaN when volatility is exactly zero
func SharpeRatio(rs *dataframe.ReturnSeries, riskFreeRate float64, periodsPerYear int) float64 {
	vol := AnnualizedVolatility(rs, periodsPerYear)
	if vol == 0 {
		return math.NaN()
	}

	return (AnnualizedArithmeticMean(rs, periodsPerYear) - riskFreeRate) / vol
}

// AlejandroRatio is the annualized geometric mean per unit of annualized
// volatility. Returns NaN when volatility is exactly zero
func AlejandroRatio(rs *dataframe.ReturnSeries, periodsPerYear int) float64 {
	vol := AnnualizedVolatility(rs, periodsPerYear)
	if vol == 0 {
		return math.NaN()
	}

	return AnnualizedGeometricMean(rs, periodsPerYear) / vol
}

// MaxDrawdown identifies the deepest decline from a previous peak in the
// cumulative wealth curve. Reported as a positive magnitude: 0.35 means the
// portfolio lost 35% from its peak. A series that never declines returns 0
func MaxDrawdown(rs *dataframe.ReturnSeries) float64 {
	if rs.Len() == 0 {
		return math.NaN()
	}

	wealth := 1.0
	peak := 1.0
	maxLoss := 0.0

	for _, r := range rs.Vals {
		wealth *= (1.0 + r)
		peak = math.Max(peak, wealth)
		loss := 1.0 - wealth/peak
		if loss > maxLoss {
			maxLoss = loss
		}
	}

	return maxLoss
}

// CalmarRatio is the annualized geometric mean divided by the max drawdown
// raised to riskPreference. Larger riskPreference penalizes drawdowns more
// heavily. Returns NaN when drawdown is exactly zero
func CalmarRatio(rs *dataframe.ReturnSeries, riskPreference float64, periodsPerYear int) float64 {
	maxDD := MaxDrawdown(rs)
	if maxDD == 0 {
		return math.NaN()
	}

	return AnnualizedGeometricMean(rs, periodsPerYear) / math.Pow(maxDD, riskPreference)
}

// BestDay identifies the largest single-period return and its date
func BestDay(rs *dataframe.ReturnSeries) (float64, time.Time) {
	if rs.Len() == 0 {
		return math.NaN(), time.Time{}
	}

	best := math.Inf(-1)
	var bestDate time.Time
	for idx, r := range rs.Vals {
		if r > best {
			best = r
			bestDate = rs.Dates[idx]
		}
	}

	return best, bestDate
}

// WorstDay identifies the smallest single-period return and its date
func WorstDay(rs *dataframe.ReturnSeries) (float64, time.Time) {
	if rs.Len() == 0 {
		return math.NaN(), time.Time{}
	}

	worst := math.Inf(1)
	var worstDate time.Time
	for idx, r := range rs.Vals {
		if r < worst {
			worst = r
			worstDate = rs.Dates[idx]
		}
	}

	return worst, worstDate
}

// BestYear compounds returns within each calendar year and reports the
// largest annual return and its year
func BestYear(rs *dataframe.ReturnSeries) (float64, int) {
	yearly := yearlyReturns(rs)
	if len(yearly) == 0 {
		return math.NaN(), 0
	}

	best := math.Inf(-1)
	bestYear := 0
	for year, ret := range yearly {
		if ret > best {
			best = ret
			bestYear = year
		}
	}

	return best, bestYear
}

// WorstYear compounds returns within each calendar year and reports the
// smallest annual return and its year
func WorstYear(rs *dataframe.ReturnSeries) (float64, int) {
	yearly := yearlyReturns(rs)
	if len(yearly) == 0 {
		return math.NaN(), 0
	}

	worst := math.Inf(1)
	worstYear := 0
	for year, ret := range yearly {
		if ret < worst {
			worst = ret
			worstYear = year
		}
	}

	return worst, worstYear
}

func yearlyReturns(rs *dataframe.ReturnSeries) map[int]float64 {
	yearly := make(map[int]float64)
	for idx, r := range rs.Vals {
		year := rs.Dates[idx].Year()
		growth, ok := yearly[year]
		if !ok {
			growth = 1.0
		}
		yearly[year] = growth * (1.0 + r)
	}

	for year, growth := range yearly {
		yearly[year] = growth - 1.0
	}

	return yearly
}

// Wealth computes the cumulative wealth curve initial * prod(1+r). The result
// has the same length and dates as the input; Vals[0] = initial * (1+r[0])
func Wealth(rs *dataframe.ReturnSeries, initial float64) *dataframe.ReturnSeries {
	wealth := &dataframe.ReturnSeries{
		Name:  rs.Name,
		Dates: rs.Dates,
		Vals:  make([]float64, rs.Len()),
	}

	acc := initial
	for idx, r := range rs.Vals {
		acc *= (1.0 + r)
		wealth.Vals[idx] = acc
	}

	return wealth
}
