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

// Package leverage sweeps a scalar multiplier over a return series to find
// the leverage maximizing compound growth.
package leverage

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexfdez1010/geometric-portfolio/common"
	"github.com/alexfdez1010/geometric-portfolio/dataframe"
	"github.com/alexfdez1010/geometric-portfolio/metrics"

	"github.com/olekukonko/tablewriter"
)

// DefaultNumPoints is the number of leverage values sampled across the range
const DefaultNumPoints = 1000

// Config parameterizes a leverage sweep
type Config struct {
	// MinLeverage and MaxLeverage bound the swept range
	MinLeverage float64
	MaxLeverage float64

	// NumPoints is the number of uniformly spaced samples
	NumPoints int

	// RiskFreeRate is the annual financing rate: leveraged returns are
	// r_L = rf_daily + L*(r - rf_daily)
	RiskFreeRate float64
}

// Point is one evaluated leverage multiplier. Ratio is undefined when the
// levered series has zero volatility and serializes as null
type Point struct {
	Leverage      float64               `json:"leverage"`
	GeometricMean float64               `json:"geometricMean"`
	Volatility    float64               `json:"volatility"`
	Ratio         metrics.NullableFloat `json:"ratio"`
}

// Table holds the sweep output. Points where the geometric mean was not
// positive are dropped; Best is the row maximizing the geometric mean
type Table struct {
	Points []Point `json:"points"`
	Best   *Point  `json:"best"`
}

// Sweep evaluates leverage multipliers sampled uniformly across
// [MinLeverage, MaxLeverage]. Each candidate's leveraged returns are clipped
// at -100% so the geometric mean stays defined; candidates whose geometric
// mean is not positive are excluded from the output
func Sweep(rs *dataframe.ReturnSeries, cfg *Config) *Table {
	numPoints := cfg.NumPoints
	if numPoints <= 0 {
		numPoints = DefaultNumPoints
	}

	// de-annualize the financing rate assuming 252 trading days
	dailyRiskFree := math.Pow(1.0+cfg.RiskFreeRate, 1.0/float64(common.TradingDaysPerYear)) - 1.0

	table := &Table{
		Points: make([]Point, 0, numPoints),
	}

	step := 0.0
	if numPoints > 1 {
		step = (cfg.MaxLeverage - cfg.MinLeverage) / float64(numPoints-1)
	}

	levered := rs.Copy()
	for ii := 0; ii < numPoints; ii++ {
		leverage := cfg.MinLeverage + float64(ii)*step

		for jj, r := range rs.Vals {
			lr := dailyRiskFree + leverage*(r-dailyRiskFree)
			// a leveraged loss cannot exceed the full stake
			levered.Vals[jj] = math.Max(lr, -1.0)
		}

		gm := metrics.AnnualizedGeometricMean(levered, common.TradingDaysPerYear)
		if math.IsNaN(gm) || gm <= 0 {
			continue
		}

		vol := metrics.AnnualizedVolatility(levered, common.TradingDaysPerYear)
		ratio := math.NaN()
		if vol > 0 {
			ratio = gm / vol
		}

		table.Points = append(table.Points, Point{
			Leverage:      leverage,
			GeometricMean: gm,
			Volatility:    vol,
			Ratio:         metrics.NullableFloat(ratio),
		})
	}

	for idx := range table.Points {
		if table.Best == nil || table.Points[idx].GeometricMean > table.Best.GeometricMean {
			table.Best = &table.Points[idx]
		}
	}

	return table
}

// Render prints an ASCII formatted table of the sweep
func (t *Table) Render() string {
	if len(t.Points) == 0 {
		return "<NO DATA>"
	}

	sb := &strings.Builder{}
	table := tablewriter.NewWriter(sb)
	table.SetHeader([]string{"Leverage", "Geometric Mean", "Volatility", "Ratio"})
	table.SetBorder(false)

	for _, p := range t.Points {
		ratio := "undefined"
		if !math.IsNaN(float64(p.Ratio)) {
			ratio = fmt.Sprintf("%.4f", float64(p.Ratio))
		}

		table.Append([]string{
			fmt.Sprintf("%.3f", p.Leverage),
			fmt.Sprintf("%.2f%%", p.GeometricMean*100),
			fmt.Sprintf("%.2f%%", p.Volatility*100),
			ratio,
		})
	}

	if t.Best != nil {
		table.SetFooter([]string{"Best", fmt.Sprintf("%.3f", t.Best.Leverage), fmt.Sprintf("%.2f%%", t.Best.GeometricMean*100), ""})
	}

	table.Render()
	return sb.String()
}
