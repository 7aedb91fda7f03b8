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

package data_test

import (
	"context"
	"os"
	"time"

	"github.com/jarcoal/httpmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alexfdez1010/geometric-portfolio/data"
)

var _ = Describe("Manager", func() {
	var (
		ctx     context.Context
		manager *data.Manager
		begin   time.Time
		end     time.Time
	)

	BeforeEach(func() {
		httpmock.Reset()
		ctx = context.Background()
		manager = data.NewManager(data.NewStooq())
		begin = time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)
		end = time.Date(2021, 1, 8, 0, 0, 0, 0, time.UTC)

		for _, ticker := range []string{"AAA", "BBB"} {
			content, err := os.ReadFile("testdata/" + ticker + ".csv")
			Expect(err).To(BeNil())
			symbol := map[string]string{"AAA": "aaa.us", "BBB": "bbb.us"}[ticker]
			httpmock.RegisterResponder("GET", "https://stooq.com/q/d/l/?s="+symbol+"&d1=20210104&d2=20210108&i=d",
				httpmock.NewBytesResponder(200, content))
		}
	})

	Describe("FetchPrices", func() {
		It("rejects an empty ticker list", func() {
			_, err := manager.FetchPrices(ctx, []string{}, begin, end)
			Expect(err).To(MatchError(data.ErrNoTickers))
		})

		It("rejects an inverted time range", func() {
			_, err := manager.FetchPrices(ctx, []string{"AAA"}, end, begin)
			Expect(err).To(MatchError(data.ErrInvalidTimeRange))
		})

		It("aligns assets on shared trading days", func() {
			// BBB has no quote for 2021-01-05 so the aligned frame drops it
			prices, err := manager.FetchPrices(ctx, []string{"AAA", "BBB"}, begin, end)
			Expect(err).To(BeNil())
			Expect(prices.Len()).To(Equal(4))
			Expect(prices.ColNames).To(ConsistOf("AAA", "BBB"))

			aIdx := prices.ColIndex("AAA")
			bIdx := prices.ColIndex("BBB")
			Expect(prices.Vals[aIdx]).To(Equal([]float64{100, 105, 115, 120}))
			Expect(prices.Vals[bIdx]).To(Equal([]float64{200, 202, 198, 204}))
		})

		It("uppercases requested tickers", func() {
			prices, err := manager.FetchPrices(ctx, []string{"aaa"}, begin, end)
			Expect(err).To(BeNil())
			Expect(prices.ColNames).To(Equal([]string{"AAA"}))
		})

		It("serves repeated requests from the cache", func() {
			_, err := manager.FetchPrices(ctx, []string{"AAA", "BBB"}, begin, end)
			Expect(err).To(BeNil())
			firstCount := httpmock.GetTotalCallCount()

			_, err = manager.FetchPrices(ctx, []string{"AAA", "BBB"}, begin, end)
			Expect(err).To(BeNil())
			Expect(httpmock.GetTotalCallCount()).To(Equal(firstCount))
		})

		It("returns independent copies from the cache", func() {
			a, err := manager.FetchPrices(ctx, []string{"AAA"}, begin, end)
			Expect(err).To(BeNil())
			a.Vals[0][0] = -1

			b, err := manager.FetchPrices(ctx, []string{"AAA"}, begin, end)
			Expect(err).To(BeNil())
			Expect(b.Vals[0][0]).To(Equal(100.0))
		})

		It("propagates provider failures", func() {
			httpmock.RegisterResponder("GET", "https://stooq.com/q/d/l/?s=err.us&d1=20210104&d2=20210108&i=d",
				httpmock.NewStringResponder(500, "boom"))

			_, err := manager.FetchPrices(ctx, []string{"ERR"}, begin, end)
			Expect(err).To(MatchError(data.ErrProviderFailure))
		})
	})

	Describe("FetchReturns", func() {
		It("converts aligned prices to daily returns", func() {
			returns, err := manager.FetchReturns(ctx, []string{"AAA", "BBB"}, begin, end)
			Expect(err).To(BeNil())

			// one fewer row than the 4 aligned price days
			Expect(returns.Len()).To(Equal(3))

			aIdx := returns.ColIndex("AAA")
			Expect(returns.Vals[aIdx][0]).To(BeNumerically("~", 0.05, 1e-9))
			Expect(returns.Vals[aIdx][1]).To(BeNumerically("~", 115.0/105.0-1.0, 1e-9))
			Expect(returns.Vals[aIdx][2]).To(BeNumerically("~", 120.0/115.0-1.0, 1e-9))
		})

		It("fails when only a single aligned day remains", func() {
			httpmock.RegisterResponder("GET", "https://stooq.com/q/d/l/?s=one.us&d1=20210104&d2=20210108&i=d",
				httpmock.NewStringResponder(200, "Date,Open,High,Low,Close,Volume\n2021-01-04,1,1,1,10.0,10\n"))

			_, err := manager.FetchReturns(ctx, []string{"AAA", "ONE"}, begin, end)
			Expect(err).To(MatchError(data.ErrNoData))
		})
	})
})
