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

package portfolio_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alexfdez1010/geometric-portfolio/portfolio"
)

var _ = Describe("WeightVector", func() {
	Describe("NewWeightVector", func() {
		It("orders assets lexicographically", func() {
			w, err := portfolio.NewWeightVector(map[string]float64{
				"VTI": 0.5,
				"BND": 0.3,
				"GLD": 0.2,
			})
			Expect(err).To(BeNil())
			Expect(w.Assets).To(Equal([]string{"BND", "GLD", "VTI"}))
			Expect(w.Weights).To(Equal([]float64{0.3, 0.2, 0.5}))
		})

		It("rejects an empty map", func() {
			_, err := portfolio.NewWeightVector(map[string]float64{})
			Expect(err).To(MatchError(portfolio.ErrInvalidWeights))
		})

		It("rejects negative weights", func() {
			_, err := portfolio.NewWeightVector(map[string]float64{
				"VTI": 1.5,
				"BND": -0.5,
			})
			Expect(err).To(MatchError(portfolio.ErrInvalidWeights))
		})

		It("rejects non-finite weights", func() {
			_, err := portfolio.NewWeightVector(map[string]float64{
				"VTI": math.NaN(),
				"BND": 1.0,
			})
			Expect(err).To(MatchError(portfolio.ErrInvalidWeights))
		})

		It("rejects weights that do not sum to one", func() {
			_, err := portfolio.NewWeightVector(map[string]float64{
				"VTI": 0.5,
				"BND": 0.4,
			})
			Expect(err).To(MatchError(portfolio.ErrInvalidWeights))
		})

		It("accepts a sum within tolerance", func() {
			w, err := portfolio.NewWeightVector(map[string]float64{
				"VTI": 0.5,
				"BND": 0.5 + 1e-9,
			})
			Expect(err).To(BeNil())
			Expect(w.Sum()).To(BeNumerically("~", 1.0, 1e-6))
		})
	})

	Describe("UniformWeights", func() {
		It("splits weight equally", func() {
			w := portfolio.UniformWeights([]string{"C", "A", "B"})
			Expect(w.Assets).To(Equal([]string{"A", "B", "C"}))
			for _, val := range w.Weights {
				Expect(val).To(BeNumerically("~", 1.0/3.0, 1e-12))
			}
		})
	})

	Describe("Get", func() {
		It("looks up weights by asset", func() {
			w := portfolio.UniformWeights([]string{"A", "B"})
			val, ok := w.Get("A")
			Expect(ok).To(BeTrue())
			Expect(val).To(Equal(0.5))

			_, ok = w.Get("Z")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Normalize", func() {
		It("rescales weights to sum to one", func() {
			w := portfolio.FromSlice([]string{"A", "B"}, []float64{2, 6})
			n := w.Normalize()
			Expect(n.Weights[0]).To(BeNumerically("~", 0.25, 1e-12))
			Expect(n.Weights[1]).To(BeNumerically("~", 0.75, 1e-12))
		})

		It("clamps negative weights to zero", func() {
			w := portfolio.FromSlice([]string{"A", "B"}, []float64{-1, 1})
			n := w.Normalize()
			Expect(n.Weights[0]).To(Equal(0.0))
			Expect(n.Weights[1]).To(Equal(1.0))
		})

		It("falls back to uniform when everything is zero", func() {
			w := portfolio.FromSlice([]string{"A", "B"}, []float64{0, 0})
			n := w.Normalize()
			Expect(n.Weights).To(Equal([]float64{0.5, 0.5}))
		})

		It("drops NaN weights", func() {
			w := portfolio.FromSlice([]string{"A", "B"}, []float64{math.NaN(), 2})
			n := w.Normalize()
			Expect(n.Weights[0]).To(Equal(0.0))
			Expect(n.Weights[1]).To(Equal(1.0))
		})
	})

	Describe("AsMap", func() {
		It("round trips through a map", func() {
			w := portfolio.UniformWeights([]string{"A", "B"})
			w2, err := portfolio.NewWeightVector(w.AsMap())
			Expect(err).To(BeNil())
			Expect(w2.Assets).To(Equal(w.Assets))
			Expect(w2.Weights).To(Equal(w.Weights))
		})
	})
})
