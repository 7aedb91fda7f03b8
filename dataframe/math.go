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

package dataframe

import (
	"math"
	"time"
)

// PctChange computes the period-over-period fractional change of every
// column and returns a new dataframe that is one row shorter than df
func (df *DataFrame) PctChange() *DataFrame {
	if df.Len() < 2 {
		return &DataFrame{
			ColNames: df.ColNames,
			Dates:    []time.Time{},
			Vals:     make([][]float64, len(df.ColNames)),
		}
	}

	newVals := make([][]float64, len(df.Vals))
	for colIdx, col := range df.Vals {
		newVals[colIdx] = make([]float64, len(col)-1)
		for rowIdx := 1; rowIdx < len(col); rowIdx++ {
			prev := col[rowIdx-1]
			if prev == 0 {
				newVals[colIdx][rowIdx-1] = math.NaN()
				continue
			}
			newVals[colIdx][rowIdx-1] = col[rowIdx]/prev - 1.0
		}
	}

	return &DataFrame{
		ColNames: df.ColNames,
		Dates:    df.Dates[1:],
		Vals:     newVals,
	}
}

// Align merges the columns of the input dataframes into a single dataframe
// containing only the dates present in every input (inner join on the date
// index). Column name collisions keep the first occurrence.
func Align(dfs ...*DataFrame) *DataFrame {
	if len(dfs) == 0 {
		return New()
	}

	if len(dfs) == 1 {
		return dfs[0].Copy()
	}

	// row lookup per frame
	rowMaps := make([]map[time.Time]int, len(dfs))
	for dfIdx, df := range dfs {
		rowMaps[dfIdx] = make(map[time.Time]int, len(df.Dates))
		for rowIdx, date := range df.Dates {
			rowMaps[dfIdx][date] = rowIdx
		}
	}

	shared := make([]time.Time, 0, len(dfs[0].Dates))
	for _, date := range dfs[0].Dates {
		inAll := true
		for dfIdx := 1; dfIdx < len(dfs); dfIdx++ {
			if _, ok := rowMaps[dfIdx][date]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			shared = append(shared, date)
		}
	}

	aligned := &DataFrame{
		Dates:    shared,
		ColNames: []string{},
		Vals:     [][]float64{},
	}

	seen := make(map[string]bool)
	for dfIdx, df := range dfs {
		for colIdx, colName := range df.ColNames {
			if seen[colName] {
				continue
			}
			seen[colName] = true

			col := make([]float64, len(shared))
			for rowIdx, date := range shared {
				col[rowIdx] = df.Vals[colIdx][rowMaps[dfIdx][date]]
			}
			aligned.ColNames = append(aligned.ColNames, colName)
			aligned.Vals = append(aligned.Vals, col)
		}
	}

	return aligned
}
