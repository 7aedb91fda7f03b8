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

package portfolio

import (
	"fmt"
	"math"
	"time"

	"github.com/alexfdez1010/geometric-portfolio/dataframe"

	"github.com/rs/zerolog/log"
)

// BacktestConfig parameterizes a rebalancing simulation
type BacktestConfig struct {
	// InitialCapital is converted into per-asset share counts at the first
	// day's close prices
	InitialCapital float64

	// Weights is the target allocation; must be a valid allocation
	Weights *WeightVector

	// Threshold is the maximum allowed per-asset deviation from the target
	// weight before a rebalance is triggered
	Threshold float64

	// FixedCost is charged once per traded asset on each rebalance
	FixedCost float64

	// VariableCost is charged as a fraction of the traded value
	VariableCost float64
}

// BacktestResult holds the outputs of a rebalancing simulation
type BacktestResult struct {
	// Returns holds the strategy's daily returns, indexed from the second
	// trading day onward (there is no day-0 return)
	Returns *dataframe.ReturnSeries

	// WeightHistory has one row per trading day with the weights held
	// BEFORE any rebalancing that occurred that day
	WeightHistory *dataframe.DataFrame

	// NumRebalances counts the days on which a rebalance was triggered
	NumRebalances int

	// TotalCost accumulates all transaction costs charged
	TotalCost float64

	// FinalValue is the cost-adjusted portfolio value on the last day
	FinalValue float64
}

// Backtest simulates a portfolio under a fixed-weight target with
// threshold-based rebalancing and transaction costs. prices holds one
// column of daily close prices per asset, aligned on a common date index.
//
// Each day the portfolio is marked to market, the held weights are recorded,
// and a rebalance back to the target is executed when any asset deviates
// from its target weight by more than the threshold. Costs are deducted from
// the portfolio value so they permanently reduce subsequent compounding.
// The deviation baseline never changes: it is always the initial target
// weight vector.
func Backtest(cfg *BacktestConfig, prices *dataframe.DataFrame) (*BacktestResult, error) {
	weights := cfg.Weights
	if weights == nil {
		return nil, fmt.Errorf("%w: no target weights", ErrInvalidWeights)
	}

	if math.Abs(weights.Sum()-1.0) > WeightSumTolerance {
		return nil, fmt.Errorf("%w: weights sum to %f", ErrInvalidWeights, weights.Sum())
	}

	if prices.Len() == 0 {
		return nil, ErrNoData
	}

	// every asset needs a price column and every price column a weight
	if len(weights.Assets) != prices.ColCount() {
		return nil, fmt.Errorf("%w: %d weights for %d price columns", ErrInvalidWeights, len(weights.Assets), prices.ColCount())
	}

	colIdxs := make([]int, len(weights.Assets))
	for idx, asset := range weights.Assets {
		colIdx := prices.ColIndex(asset)
		if colIdx == -1 {
			return nil, fmt.Errorf("%w: no price data for %s", ErrInvalidWeights, asset)
		}
		colIdxs[idx] = colIdx
	}

	subLog := log.With().Str("Component", "backtest").Int("NumAssets", len(weights.Assets)).Logger()
	subLog.Debug().Time("Begin", prices.Start()).Time("End", prices.End()).Msg("starting simulation")

	numAssets := len(weights.Assets)
	numDays := prices.Len()

	// buy in at the first day's close
	shares := make([]float64, numAssets)
	for ii := range shares {
		p0 := prices.Vals[colIdxs[ii]][0]
		if p0 > 0 {
			shares[ii] = weights.Weights[ii] * cfg.InitialCapital / p0
		}
	}

	result := &BacktestResult{
		Returns: &dataframe.ReturnSeries{
			Name:  PortfolioSeriesName,
			Dates: make([]time.Time, 0, numDays-1),
			Vals:  make([]float64, 0, numDays-1),
		},
		WeightHistory: dataframe.New(weights.Assets...),
	}

	prevValue := cfg.InitialCapital
	dayPrices := make([]float64, numAssets)
	dayWeights := make([]float64, numAssets)

	for dayIdx := 0; dayIdx < numDays; dayIdx++ {
		date := prices.Dates[dayIdx]
		for ii := range dayPrices {
			dayPrices[ii] = prices.Vals[colIdxs[ii]][dayIdx]
		}

		// mark to market
		value := 0.0
		for ii := range shares {
			value += shares[ii] * dayPrices[ii]
		}

		// held weights before any trade today
		for ii := range dayWeights {
			if value == 0 {
				dayWeights[ii] = 0
			} else {
				dayWeights[ii] = shares[ii] * dayPrices[ii] / value
			}
		}

		row := make(map[string]float64, numAssets)
		for ii, asset := range weights.Assets {
			row[asset] = dayWeights[ii]
		}
		result.WeightHistory.InsertMap(date, row)

		// rebalance when any asset drifts past the threshold
		triggered := false
		for ii := range dayWeights {
			if math.Abs(dayWeights[ii]-weights.Weights[ii]) > cfg.Threshold {
				triggered = true
				break
			}
		}

		if triggered {
			cost := 0.0
			for ii := range shares {
				if dayPrices[ii] == 0 {
					// untradeable today
					continue
				}

				target := weights.Weights[ii] * value
				delta := target - shares[ii]*dayPrices[ii]
				if delta == 0 {
					continue
				}

				cost += cfg.FixedCost + cfg.VariableCost*math.Abs(delta)
				shares[ii] += delta / dayPrices[ii]
			}

			value -= cost
			result.TotalCost += cost
			result.NumRebalances++

			subLog.Trace().Time("Date", date).Float64("Cost", cost).Float64("Value", value).Msg("rebalanced")
		}

		if dayIdx > 0 {
			dailyReturn := math.NaN()
			if prevValue != 0 {
				dailyReturn = value/prevValue - 1.0
			}
			result.Returns.Dates = append(result.Returns.Dates, date)
			result.Returns.Vals = append(result.Returns.Vals, dailyReturn)
		}

		prevValue = value
	}

	result.FinalValue = prevValue
	return result, nil
}
