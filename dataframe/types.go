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
	"time"
)

// DataFrame stores a table of values organized by date
// the vals array is column major - e.g.,
//
//	SPY    TLT
//	1      4
//	2      5
//	3      6
//
// Vals[0][0] = 1
// Vals[0][1] = 2
type DataFrame struct {
	Dates    []time.Time
	ColNames []string
	Vals     [][]float64
}

// ReturnSeries is a single named column of period returns indexed by date.
// Invariant once constructed: dates strictly increase and values are finite.
type ReturnSeries struct {
	Name  string
	Dates []time.Time
	Vals  []float64
}

// New creates an empty dataframe with the requested columns
func New(colNames ...string) *DataFrame {
	vals := make([][]float64, len(colNames))
	for idx := range vals {
		vals[idx] = []float64{}
	}

	return &DataFrame{
		Dates:    []time.Time{},
		ColNames: colNames,
		Vals:     vals,
	}
}

// NewReturnSeries creates a return series from parallel date and value slices
func NewReturnSeries(name string, dates []time.Time, vals []float64) *ReturnSeries {
	return &ReturnSeries{
		Name:  name,
		Dates: dates,
		Vals:  vals,
	}
}

// Len returns the number of observations in the series
func (rs *ReturnSeries) Len() int {
	return len(rs.Vals)
}

// Start returns the first date of the series
func (rs *ReturnSeries) Start() time.Time {
	if len(rs.Dates) == 0 {
		return time.Time{}
	}
	return rs.Dates[0]
}

// End returns the last date of the series
func (rs *ReturnSeries) End() time.Time {
	if len(rs.Dates) == 0 {
		return time.Time{}
	}
	return rs.Dates[len(rs.Dates)-1]
}

// Copy creates a deep copy of the series
func (rs *ReturnSeries) Copy() *ReturnSeries {
	rs2 := &ReturnSeries{
		Name:  rs.Name,
		Dates: make([]time.Time, len(rs.Dates)),
		Vals:  make([]float64, len(rs.Vals)),
	}

	copy(rs2.Dates, rs.Dates)
	copy(rs2.Vals, rs.Vals)
	return rs2
}

// Frame converts the series to a single-column dataframe; the underlying
// storage is shared with the series
func (rs *ReturnSeries) Frame() *DataFrame {
	return &DataFrame{
		Dates:    rs.Dates,
		ColNames: []string{rs.Name},
		Vals:     [][]float64{rs.Vals},
	}
}
