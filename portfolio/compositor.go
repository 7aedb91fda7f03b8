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
	"time"

	"github.com/alexfdez1010/geometric-portfolio/dataframe"
)

// PortfolioSeriesName is the column name given to composed portfolio returns
const PortfolioSeriesName = "PORTFOLIO"

// ComputeReturns maps a weight vector and a return matrix to a single
// combined return series: r_p[t] = sum_i w_i * r_i[t]. Only assets present
// in both the matrix columns and the weight vector contribute; if the
// intersection is empty the result is an empty series, not an error.
//
// This models continuous, cost-free rebalancing to fixed weights every
// period; see Backtest for the simulation with thresholds and costs.
func ComputeReturns(returns *dataframe.DataFrame, weights *WeightVector) *dataframe.ReturnSeries {
	colIdxs := make([]int, 0, len(weights.Assets))
	wVals := make([]float64, 0, len(weights.Assets))

	for idx, asset := range weights.Assets {
		colIdx := returns.ColIndex(asset)
		if colIdx == -1 {
			continue
		}
		colIdxs = append(colIdxs, colIdx)
		wVals = append(wVals, weights.Weights[idx])
	}

	if len(colIdxs) == 0 {
		return &dataframe.ReturnSeries{
			Name:  PortfolioSeriesName,
			Dates: []time.Time{},
			Vals:  []float64{},
		}
	}

	vals := make([]float64, returns.Len())
	for rowIdx := range returns.Dates {
		combined := 0.0
		for ii, colIdx := range colIdxs {
			combined += wVals[ii] * returns.Vals[colIdx][rowIdx]
		}
		vals[rowIdx] = combined
	}

	return &dataframe.ReturnSeries{
		Name:  PortfolioSeriesName,
		Dates: returns.Dates,
		Vals:  vals,
	}
}
