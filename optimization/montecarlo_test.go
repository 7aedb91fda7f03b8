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

package optimization_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alexfdez1010/geometric-portfolio/dataframe"
	"github.com/alexfdez1010/geometric-portfolio/optimization"
)

// syntheticReturns builds a two asset return matrix where GOOD strictly
// dominates BAD: higher growth with smaller swings
func syntheticReturns(numDays int) *dataframe.DataFrame {
	dates := make([]time.Time, numDays)
	good := make([]float64, numDays)
	bad := make([]float64, numDays)

	dt := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for idx := 0; idx < numDays; idx++ {
		dates[idx] = dt
		dt = dt.AddDate(0, 0, 1)
		good[idx] = 0.004 + 0.002*math.Sin(float64(idx))
		bad[idx] = -0.001 + 0.02*math.Sin(1.7*float64(idx))
	}

	return &dataframe.DataFrame{
		ColNames: []string{"BAD", "GOOD"},
		Dates:    dates,
		Vals:     [][]float64{bad, good},
	}
}

var _ = Describe("MonteCarlo", func() {
	var returns *dataframe.DataFrame

	BeforeEach(func() {
		returns = syntheticReturns(252)
	})

	It("is reproducible for the same seed", func() {
		a := optimization.NewMonteCarlo(returns, 42).Run(500, optimization.DefaultObjectives())
		b := optimization.NewMonteCarlo(returns, 42).Run(500, optimization.DefaultObjectives())

		Expect(a).To(HaveLen(len(b)))
		for idx := range a {
			Expect(a[idx].Weights.Weights).To(Equal(b[idx].Weights.Weights))
			Expect(a[idx].Value).To(Equal(b[idx].Value))
		}
	})

	It("draws different samples for different seeds", func() {
		a := optimization.NewMonteCarlo(returns, 1)
		b := optimization.NewMonteCarlo(returns, 2)
		a.Run(100, optimization.DefaultObjectives())
		b.Run(100, optimization.DefaultObjectives())

		Expect(a.Samples[0].Weights).NotTo(Equal(b.Samples[0].Weights))
	})

	It("keeps every sample on the weight simplex", func() {
		mc := optimization.NewMonteCarlo(returns, 7)
		mc.Run(1000, optimization.DefaultObjectives())

		Expect(mc.Samples).To(HaveLen(1000))
		for _, sample := range mc.Samples {
			sum := 0.0
			for _, w := range sample.Weights {
				Expect(w).To(BeNumerically(">=", 0.0))
				Expect(w).To(BeNumerically("<=", 1.0))
				sum += w
			}
			Expect(sum).To(BeNumerically("~", 1.0, 1e-9))
		}
	})

	It("returns valid allocations for every objective", func() {
		results := optimization.NewMonteCarlo(returns, 7).Run(1000, optimization.DefaultObjectives())

		Expect(results).To(HaveLen(3))
		for _, result := range results {
			Expect(result.Converged).To(BeTrue())
			Expect(result.Weights.Sum()).To(BeNumerically("~", 1.0, 1e-9))
			Expect(math.IsNaN(result.Value)).To(BeFalse())
		}
	})

	It("favors the dominating asset when maximizing growth", func() {
		results := optimization.NewMonteCarlo(returns, 7).Run(2000, optimization.DefaultObjectives())

		var growth *optimization.Result
		for _, result := range results {
			if result.Objective == optimization.ObjectiveGeometricMean {
				growth = result
			}
		}
		Expect(growth).NotTo(BeNil())

		goodWeight, _ := growth.Weights.Get("GOOD")
		badWeight, _ := growth.Weights.Get("BAD")
		Expect(goodWeight).To(BeNumerically(">", badWeight))
	})

	It("keeps results in objective order", func() {
		objectives := optimization.DefaultObjectives()
		results := optimization.NewMonteCarlo(returns, 7).Run(200, objectives)

		for idx := range objectives {
			Expect(results[idx].Objective).To(Equal(objectives[idx].Kind))
		}
	})

	Context("with a single asset", func() {
		It("allocates the full weight without sampling", func() {
			single := &dataframe.DataFrame{
				ColNames: []string{"ONLY"},
				Dates:    returns.Dates,
				Vals:     [][]float64{returns.Vals[1]},
			}

			results := optimization.NewMonteCarlo(single, 7).Run(100, optimization.DefaultObjectives())
			for _, result := range results {
				Expect(result.Converged).To(BeTrue())
				Expect(result.Weights.Weights).To(Equal([]float64{1.0}))
			}
		})
	})

	Context("with no assets", func() {
		It("reports undefined results", func() {
			empty := dataframe.New()
			results := optimization.NewMonteCarlo(empty, 7).Run(100, optimization.DefaultObjectives())
			for _, result := range results {
				Expect(result.Converged).To(BeFalse())
				Expect(math.IsNaN(result.Value)).To(BeTrue())
			}
		})
	})
})

var _ = Describe("Objective", func() {
	It("creates every known kind", func() {
		for _, kind := range []optimization.ObjectiveKind{
			optimization.ObjectiveGeometricMean,
			optimization.ObjectiveMaxDrawdown,
			optimization.ObjectiveCalmarRatio,
			optimization.ObjectiveAlejandroRatio,
		} {
			obj, err := optimization.NewObjective(kind)
			Expect(err).To(BeNil())
			Expect(obj.Kind).To(Equal(kind))
		}
	})

	It("rejects unknown kinds", func() {
		_, err := optimization.NewObjective("made-up")
		Expect(err).NotTo(BeNil())
	})

	It("defaults to three objectives", func() {
		objectives := optimization.DefaultObjectives()
		Expect(objectives).To(HaveLen(3))
		Expect(objectives[0].Kind).To(Equal(optimization.ObjectiveGeometricMean))
		Expect(objectives[1].Kind).To(Equal(optimization.ObjectiveMaxDrawdown))
		Expect(objectives[2].Kind).To(Equal(optimization.ObjectiveCalmarRatio))
	})
})
