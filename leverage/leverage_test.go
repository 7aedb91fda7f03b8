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

package leverage_test

import (
	"math"
	"time"

	"github.com/goccy/go-json"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alexfdez1010/geometric-portfolio/common"
	"github.com/alexfdez1010/geometric-portfolio/dataframe"
	"github.com/alexfdez1010/geometric-portfolio/leverage"
	"github.com/alexfdez1010/geometric-portfolio/metrics"
)

func returnSeries(vals []float64) *dataframe.ReturnSeries {
	dates := make([]time.Time, len(vals))
	dt := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	for idx := range dates {
		dates[idx] = dt
		dt = dt.AddDate(0, 0, 1)
	}
	return dataframe.NewReturnSeries("TEST", dates, vals)
}

func growingSeries(numDays int) *dataframe.ReturnSeries {
	vals := make([]float64, numDays)
	for idx := range vals {
		vals[idx] = 0.002 + 0.01*math.Sin(float64(idx))
	}
	return returnSeries(vals)
}

var _ = Describe("Sweep", func() {
	Context("with zero risk free rate", func() {
		var rs *dataframe.ReturnSeries

		BeforeEach(func() {
			rs = growingSeries(252)
		})

		It("excludes zero leverage because it cannot grow", func() {
			table := leverage.Sweep(rs, &leverage.Config{
				MinLeverage: 0.0,
				MaxLeverage: 1.0,
				NumPoints:   11,
			})

			for _, point := range table.Points {
				Expect(point.Leverage).NotTo(Equal(0.0))
				Expect(point.GeometricMean).To(BeNumerically(">", 0.0))
			}
		})

		It("reproduces the unlevered series at leverage one", func() {
			table := leverage.Sweep(rs, &leverage.Config{
				MinLeverage: 1.0,
				MaxLeverage: 2.0,
				NumPoints:   11,
			})

			Expect(table.Points).NotTo(BeEmpty())
			first := table.Points[0]
			Expect(first.Leverage).To(Equal(1.0))
			Expect(first.GeometricMean).To(BeNumerically("~", metrics.AnnualizedGeometricMean(rs, common.TradingDaysPerYear), 1e-9))
			Expect(first.Volatility).To(BeNumerically("~", metrics.AnnualizedVolatility(rs, common.TradingDaysPerYear), 1e-9))
		})
	})

	It("picks the point with the highest geometric mean as best", func() {
		rs := growingSeries(252)
		table := leverage.Sweep(rs, &leverage.Config{
			MinLeverage: 0.5,
			MaxLeverage: 3.0,
			NumPoints:   101,
		})

		Expect(table.Best).NotTo(BeNil())
		for _, point := range table.Points {
			Expect(table.Best.GeometricMean).To(BeNumerically(">=", point.GeometricMean))
		}
	})

	It("drops candidates ruined by excess leverage", func() {
		// a 40% single day loss wipes out any 2.5x or higher allocation
		vals := make([]float64, 252)
		for idx := range vals {
			vals[idx] = 0.01
		}
		vals[100] = -0.4
		rs := returnSeries(vals)

		table := leverage.Sweep(rs, &leverage.Config{
			MinLeverage: 1.0,
			MaxLeverage: 10.0,
			NumPoints:   10,
		})

		for _, point := range table.Points {
			Expect(point.GeometricMean).To(BeNumerically(">", 0.0))
			Expect(point.Leverage).To(BeNumerically("<", 2.5))
		}
	})

	It("scales volatility linearly with leverage when financing is free", func() {
		rs := growingSeries(252)
		table := leverage.Sweep(rs, &leverage.Config{
			MinLeverage: 1.0,
			MaxLeverage: 2.0,
			NumPoints:   2,
		})

		Expect(table.Points).To(HaveLen(2))
		Expect(table.Points[1].Volatility).To(BeNumerically("~", 2.0*table.Points[0].Volatility, 1e-9))
	})

	It("defaults the number of points", func() {
		rs := growingSeries(100)
		table := leverage.Sweep(rs, &leverage.Config{
			MinLeverage: 0.5,
			MaxLeverage: 1.5,
		})

		// every candidate in this narrow range grows, so none are dropped
		Expect(table.Points).To(HaveLen(leverage.DefaultNumPoints))
	})

	It("charges financing costs against levered positions", func() {
		rs := growingSeries(252)

		free := leverage.Sweep(rs, &leverage.Config{
			MinLeverage: 2.0,
			MaxLeverage: 2.0,
			NumPoints:   1,
		})
		funded := leverage.Sweep(rs, &leverage.Config{
			MinLeverage:  2.0,
			MaxLeverage:  2.0,
			NumPoints:    1,
			RiskFreeRate: 0.05,
		})

		Expect(free.Points).To(HaveLen(1))
		Expect(funded.Points).To(HaveLen(1))
		Expect(funded.Points[0].GeometricMean).To(BeNumerically("<", free.Points[0].GeometricMean))
	})

	It("serializes a zero volatility candidate with a null ratio", func() {
		// constant daily returns produce surviving points with zero
		// volatility, so the growth to volatility ratio is undefined
		vals := make([]float64, 252)
		for idx := range vals {
			vals[idx] = 0.01
		}
		rs := returnSeries(vals)

		table := leverage.Sweep(rs, &leverage.Config{
			MinLeverage:  0.0,
			MaxLeverage:  1.0,
			NumPoints:    2,
			RiskFreeRate: 0.05,
		})

		Expect(table.Points).To(HaveLen(2))
		Expect(table.Points[0].Leverage).To(Equal(0.0))
		Expect(table.Points[0].Volatility).To(Equal(0.0))
		Expect(math.IsNaN(float64(table.Points[0].Ratio))).To(BeTrue())

		encoded, err := json.Marshal(table)
		Expect(err).To(BeNil())
		Expect(string(encoded)).To(ContainSubstring(`"ratio":null`))

		Expect(table.Render()).To(ContainSubstring("undefined"))
	})

	It("renders a table", func() {
		rs := growingSeries(100)
		table := leverage.Sweep(rs, &leverage.Config{
			MinLeverage: 0.5,
			MaxLeverage: 1.5,
			NumPoints:   5,
		})

		rendered := table.Render()
		Expect(rendered).To(ContainSubstring("LEVERAGE"))
	})
})
