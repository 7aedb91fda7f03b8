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

package optimization

import (
	"math"
	"math/rand"
	"runtime"

	"github.com/alexfdez1010/geometric-portfolio/dataframe"
	"github.com/alexfdez1010/geometric-portfolio/portfolio"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultNumSamples is the number of weight vectors drawn when the caller
// does not specify one
const DefaultNumSamples = 10_000

// Sample is one scored candidate allocation. Weights are parallel to the
// sampler's asset order, Scores to the objectives passed to Run
type Sample struct {
	Weights []float64
	Scores  []float64
}

// MonteCarlo explores the weight simplex by random sampling: each candidate
// draws one uniform value per asset and normalizes the vector to sum to 1.
// This is not a uniform distribution over the simplex but covers it broadly
// enough for exploration.
//
// The random source is explicit and seedable so runs are reproducible
type MonteCarlo struct {
	returns *dataframe.DataFrame
	rnd     *rand.Rand

	// Samples retains every scored candidate from the last Run, in draw
	// order, for frontier plots and export
	Samples []Sample
}

// NewMonteCarlo creates a sampler over the given return matrix. The same
// seed always produces the same samples
func NewMonteCarlo(returns *dataframe.DataFrame, seed int64) *MonteCarlo {
	return &MonteCarlo{
		returns: returns,
		rnd:     rand.New(rand.NewSource(seed)),
	}
}

// Run draws numSamples candidate allocations, scores each against every
// objective, and returns the best allocation per objective. Scoring is
// fanned out across workers; the best-candidate selection is a reduction
// over an unordered set so the outcome does not depend on scheduling
func (mc *MonteCarlo) Run(numSamples int, objectives []Objective) []*Result {
	assets := mc.returns.ColNames

	if numSamples <= 0 {
		numSamples = DefaultNumSamples
	}

	if len(assets) < 2 {
		// degenerate: a single asset always gets the full allocation
		return degenerateResults(mc.returns, objectives)
	}

	// draw all candidates up front from the single seeded source; scoring
	// below is parallel but the draws stay deterministic
	mc.Samples = make([]Sample, numSamples)
	for ii := range mc.Samples {
		weights := make([]float64, len(assets))
		sum := 0.0
		for jj := range weights {
			weights[jj] = mc.rnd.Float64()
			sum += weights[jj]
		}
		for jj := range weights {
			weights[jj] /= sum
		}
		mc.Samples[ii] = Sample{
			Weights: weights,
			Scores:  make([]float64, len(objectives)),
		}
	}

	numWorkers := runtime.GOMAXPROCS(0)
	chunk := (numSamples + numWorkers - 1) / numWorkers

	var eg errgroup.Group
	for worker := 0; worker < numWorkers; worker++ {
		begin := worker * chunk
		end := begin + chunk
		if end > numSamples {
			end = numSamples
		}
		if begin >= end {
			break
		}

		eg.Go(func() error {
			for ii := begin; ii < end; ii++ {
				candidate := portfolio.FromSlice(assets, mc.Samples[ii].Weights)
				rs := portfolio.ComputeReturns(mc.returns, candidate)
				for objIdx := range objectives {
					mc.Samples[ii].Scores[objIdx] = objectives[objIdx].Score(rs)
				}
			}
			return nil
		})
	}

	// workers never return errors; Wait only synchronizes
	_ = eg.Wait()

	results := make([]*Result, len(objectives))
	for objIdx := range objectives {
		obj := &objectives[objIdx]

		bestIdx := -1
		bestScore := math.NaN()
		for ii := range mc.Samples {
			if obj.better(mc.Samples[ii].Scores[objIdx], bestScore) {
				bestIdx = ii
				bestScore = mc.Samples[ii].Scores[objIdx]
			}
		}

		if bestIdx == -1 {
			// objective undefined for every candidate
			log.Warn().Str("Objective", string(obj.Kind)).Msg("objective undefined for all samples")
			results[objIdx] = &Result{
				Objective: obj.Kind,
				Weights:   portfolio.UniformWeights(assets),
				Value:     math.NaN(),
				Converged: false,
			}
			continue
		}

		results[objIdx] = &Result{
			Objective: obj.Kind,
			Weights:   portfolio.FromSlice(assets, mc.Samples[bestIdx].Weights).Normalize(),
			Value:     bestScore,
			Converged: true,
		}
	}

	return results
}

// degenerateResults handles matrices with fewer than 2 assets: optimization
// is trivial and the single asset (if any) receives weight 1.0
func degenerateResults(returns *dataframe.DataFrame, objectives []Objective) []*Result {
	results := make([]*Result, len(objectives))
	for objIdx := range objectives {
		obj := &objectives[objIdx]

		if returns.ColCount() == 0 {
			results[objIdx] = &Result{
				Objective: obj.Kind,
				Weights:   &portfolio.WeightVector{Assets: []string{}, Weights: []float64{}},
				Value:     math.NaN(),
				Converged: false,
			}
			continue
		}

		weights := portfolio.FromSlice(returns.ColNames, []float64{1.0})
		results[objIdx] = &Result{
			Objective: obj.Kind,
			Weights:   weights,
			Value:     obj.score(returns, weights),
			Converged: true,
		}
	}
	return results
}
