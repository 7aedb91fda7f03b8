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

package metrics_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alexfdez1010/geometric-portfolio/dataframe"
	"github.com/alexfdez1010/geometric-portfolio/metrics"
)

func returnSeries(start time.Time, vals []float64) *dataframe.ReturnSeries {
	dates := make([]time.Time, len(vals))
	dt := start
	for idx := range dates {
		dates[idx] = dt
		dt = dt.AddDate(0, 0, 1)
	}
	return dataframe.NewReturnSeries("TEST", dates, vals)
}

var _ = Describe("Metrics", func() {
	var start time.Time

	BeforeEach(func() {
		start = time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	})

	Context("with an empty series", func() {
		var rs *dataframe.ReturnSeries

		BeforeEach(func() {
			rs = returnSeries(start, []float64{})
		})

		It("reports NaN means", func() {
			Expect(math.IsNaN(metrics.ArithmeticMean(rs))).To(BeTrue())
			Expect(math.IsNaN(metrics.GeometricMean(rs))).To(BeTrue())
		})

		It("reports NaN volatility", func() {
			Expect(math.IsNaN(metrics.Volatility(rs))).To(BeTrue())
		})

		It("reports NaN drawdown", func() {
			Expect(math.IsNaN(metrics.MaxDrawdown(rs))).To(BeTrue())
		})

		It("reports NaN best and worst days", func() {
			best, _ := metrics.BestDay(rs)
			worst, _ := metrics.WorstDay(rs)
			Expect(math.IsNaN(best)).To(BeTrue())
			Expect(math.IsNaN(worst)).To(BeTrue())
		})
	})

	Context("with a constant positive return", func() {
		var rs *dataframe.ReturnSeries

		BeforeEach(func() {
			vals := make([]float64, 100)
			for idx := range vals {
				vals[idx] = 0.01
			}
			rs = returnSeries(start, vals)
		})

		It("has equal arithmetic and geometric means", func() {
			Expect(metrics.ArithmeticMean(rs)).To(BeNumerically("~", 0.01, 1e-12))
			Expect(metrics.GeometricMean(rs)).To(BeNumerically("~", 0.01, 1e-12))
		})

		It("has zero volatility and a NaN sharpe ratio", func() {
			Expect(metrics.Volatility(rs)).To(BeNumerically("~", 0.0, 1e-12))
			Expect(math.IsNaN(metrics.SharpeRatio(rs, 0.0, 252))).To(BeTrue())
			Expect(math.IsNaN(metrics.AlejandroRatio(rs, 252))).To(BeTrue())
		})

		It("never draws down", func() {
			Expect(metrics.MaxDrawdown(rs)).To(Equal(0.0))
			Expect(math.IsNaN(metrics.CalmarRatio(rs, 1.0, 252))).To(BeTrue())
		})

		It("compounds the annualized geometric mean", func() {
			expected := math.Pow(1.01, 252) - 1.0
			Expect(metrics.AnnualizedGeometricMean(rs, 252)).To(BeNumerically("~", expected, 1e-9))
		})
	})

	Context("with alternating gains and losses", func() {
		var rs *dataframe.ReturnSeries

		BeforeEach(func() {
			// +10% then -10% repeated loses money over time
			vals := make([]float64, 50)
			for idx := range vals {
				if idx%2 == 0 {
					vals[idx] = 0.1
				} else {
					vals[idx] = -0.1
				}
			}
			rs = returnSeries(start, vals)
		})

		It("has zero arithmetic mean but a negative geometric mean", func() {
			Expect(metrics.ArithmeticMean(rs)).To(BeNumerically("~", 0.0, 1e-12))
			Expect(metrics.GeometricMean(rs)).To(BeNumerically("<", 0.0))
		})

		It("has geometric mean below arithmetic mean", func() {
			Expect(metrics.GeometricMean(rs)).To(BeNumerically("<", metrics.ArithmeticMean(rs)))
		})

		It("draws down from the first-day peak as wealth decays", func() {
			// each +10%/-10% pair multiplies wealth by 0.99; the peak is set
			// on day one at 1.1 and the trough is the final value 0.99^25
			expected := 1.0 - math.Pow(0.99, 25)/1.1
			Expect(metrics.MaxDrawdown(rs)).To(BeNumerically("~", expected, 1e-9))
		})

		It("finds the best and worst days", func() {
			best, bestDate := metrics.BestDay(rs)
			worst, worstDate := metrics.WorstDay(rs)
			Expect(best).To(Equal(0.1))
			Expect(bestDate).To(Equal(start))
			Expect(worst).To(Equal(-0.1))
			Expect(worstDate).To(Equal(start.AddDate(0, 0, 1)))
		})
	})

	Context("with a return at or below -100%", func() {
		It("reports a NaN geometric mean", func() {
			rs := returnSeries(start, []float64{0.05, -1.0, 0.02})
			Expect(math.IsNaN(metrics.GeometricMean(rs))).To(BeTrue())
		})
	})

	Describe("MaxDrawdown", func() {
		It("measures the decline from the running peak", func() {
			// wealth: 1.2, 0.6, 0.9 => 50% below the 1.2 peak
			rs := returnSeries(start, []float64{0.2, -0.5, 0.5})
			Expect(metrics.MaxDrawdown(rs)).To(BeNumerically("~", 0.5, 1e-9))
		})

		It("is zero for a monotonically increasing curve", func() {
			rs := returnSeries(start, []float64{0.5, 0.5, 0.5})
			Expect(metrics.MaxDrawdown(rs)).To(Equal(0.0))
		})
	})

	Describe("yearly aggregation", func() {
		It("compounds returns within each calendar year", func() {
			dates := []time.Time{
				time.Date(2020, 12, 30, 0, 0, 0, 0, time.UTC),
				time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
				time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC),
				time.Date(2021, 1, 5, 0, 0, 0, 0, time.UTC),
			}
			rs := dataframe.NewReturnSeries("TEST", dates, []float64{0.1, 0.1, -0.05, -0.05})

			best, bestYear := metrics.BestYear(rs)
			worst, worstYear := metrics.WorstYear(rs)

			Expect(bestYear).To(Equal(2020))
			Expect(best).To(BeNumerically("~", 1.1*1.1-1.0, 1e-9))
			Expect(worstYear).To(Equal(2021))
			Expect(worst).To(BeNumerically("~", 0.95*0.95-1.0, 1e-9))
		})
	})

	Describe("Wealth", func() {
		It("compounds the initial stake through the return stream", func() {
			rs := returnSeries(start, []float64{0.1, -0.1, 0.05})
			wealth := metrics.Wealth(rs, 10_000)
			Expect(wealth.Len()).To(Equal(3))
			Expect(wealth.Vals[0]).To(BeNumerically("~", 11_000, 1e-6))
			Expect(wealth.Vals[1]).To(BeNumerically("~", 9_900, 1e-6))
			Expect(wealth.Vals[2]).To(BeNumerically("~", 10_395, 1e-6))
		})
	})

	Describe("SharpeRatio", func() {
		It("decreases as the risk free rate rises", func() {
			rs := returnSeries(start, []float64{0.01, -0.005, 0.02, 0.003, -0.01})
			low := metrics.SharpeRatio(rs, 0.0, 252)
			high := metrics.SharpeRatio(rs, 0.05, 252)
			Expect(high).To(BeNumerically("<", low))
		})
	})
})

var _ = Describe("Summary", func() {
	It("builds every metric for a healthy series", func() {
		rs := returnSeries(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
			[]float64{0.01, -0.005, 0.02, 0.003, -0.01, 0.007})
		summary := metrics.NewSummary(rs, 0.0, 252)

		Expect(summary.Name).To(Equal("TEST"))
		Expect(math.IsNaN(float64(summary.GeometricMean))).To(BeFalse())
		Expect(math.IsNaN(float64(summary.Volatility))).To(BeFalse())
		Expect(math.IsNaN(float64(summary.MaxDrawdown))).To(BeFalse())
	})

	It("serializes undefined metrics as null", func() {
		// constant returns have zero volatility so ratio metrics are undefined
		rs := returnSeries(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
			[]float64{0.01, 0.01, 0.01})
		summary := metrics.NewSummary(rs, 0.0, 252)

		encoded, err := summary.SharpeRatio.MarshalJSON()
		Expect(err).To(BeNil())
		Expect(string(encoded)).To(Equal("null"))
	})

	It("renders a table with undefined entries", func() {
		rs := returnSeries(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
			[]float64{0.01, 0.01, 0.01})
		summary := metrics.NewSummary(rs, 0.0, 252)

		rendered := summary.Table()
		Expect(rendered).To(ContainSubstring("undefined"))
	})
})

var _ = Describe("FrameSummaries", func() {
	It("summarizes every column in column order", func() {
		dates := make([]time.Time, 5)
		dt := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
		for idx := range dates {
			dates[idx] = dt
			dt = dt.AddDate(0, 0, 1)
		}

		df := &dataframe.DataFrame{
			Dates:    dates,
			ColNames: []string{"AAA", "BBB"},
			Vals: [][]float64{
				{0.01, -0.005, 0.02, 0.003, -0.01},
				{-0.002, 0.015, -0.01, 0.004, 0.006},
			},
		}

		summaries := metrics.FrameSummaries(df, 0.0, 252)
		Expect(summaries).To(HaveLen(2))
		Expect(summaries[0].Name).To(Equal("AAA"))
		Expect(summaries[1].Name).To(Equal("BBB"))

		aaa := metrics.NewSummary(df.Col("AAA"), 0.0, 252)
		Expect(summaries[0].GeometricMean).To(Equal(aaa.GeometricMean))
		Expect(summaries[0].MaxDrawdown).To(Equal(aaa.MaxDrawdown))

		bbb := metrics.NewSummary(df.Col("BBB"), 0.0, 252)
		Expect(summaries[1].GeometricMean).To(Equal(bbb.GeometricMean))
	})

	It("returns no summaries for an empty frame", func() {
		Expect(metrics.FrameSummaries(dataframe.New(), 0.0, 252)).To(BeEmpty())
	})
})
