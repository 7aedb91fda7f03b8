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
	"sync"

	"github.com/alexfdez1010/geometric-portfolio/dataframe"
	"github.com/alexfdez1010/geometric-portfolio/portfolio"

	"github.com/rs/zerolog/log"
	goopt "gonum.org/v1/gonum/optimize"
)

// SolverConfig exposes the numerical tolerances and iteration caps of the
// constrained solver
type SolverConfig struct {
	// MaxIterations caps the number of major iterations per objective
	MaxIterations int

	// GradientThreshold stops a gradient-based method once the gradient
	// norm falls below it
	GradientThreshold float64

	// PenaltyWeight scales the quadratic penalty enforcing sum(w) = 1
	PenaltyWeight float64
}

// DefaultSolverConfig returns the tolerances used when the caller does not
// override them
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		MaxIterations:     1000,
		GradientThreshold: 1e-8,
		PenaltyWeight:     1000.0,
	}
}

// Solver finds allocation weights through smooth constrained minimization:
// each objective is negated when maximizing and minimized over the weight
// box [0,1]^k with the simplex equality sum(w) = 1 enforced as a quadratic
// penalty. Every objective is solved independently starting from the
// uniform allocation
type Solver struct {
	returns *dataframe.DataFrame
	cfg     SolverConfig
}

// NewSolver creates a solver over the given return matrix
func NewSolver(returns *dataframe.DataFrame, cfg SolverConfig) *Solver {
	return &Solver{
		returns: returns,
		cfg:     cfg,
	}
}

// Run optimizes every objective and returns one result per objective, in
// order. The solves are independent and run concurrently. Non-convergence
// is not an error: the best iterate is returned with Converged set to false
func (s *Solver) Run(objectives []Objective) []*Result {
	if s.returns.ColCount() < 2 {
		return degenerateResults(s.returns, objectives)
	}

	results := make([]*Result, len(objectives))

	var wg sync.WaitGroup
	for objIdx := range objectives {
		wg.Add(1)
		go func(objIdx int) {
			defer wg.Done()
			results[objIdx] = s.solve(&objectives[objIdx])
		}(objIdx)
	}
	wg.Wait()

	return results
}

func (s *Solver) solve(obj *Objective) *Result {
	assets := s.returns.ColNames
	n := len(assets)

	sign := 1.0
	if obj.Direction == Maximize {
		sign = -1.0
	}

	problem := goopt.Problem{
		Func: func(x []float64) float64 {
			proj := projectToBox(x)

			score := obj.Score(portfolio.ComputeReturns(s.returns, portfolio.FromSlice(assets, proj)))
			if math.IsNaN(score) {
				// objective undefined at this point (e.g., a total-loss
				// period); steer the search away instead of crashing
				return math.Inf(1)
			}

			sum := 0.0
			for _, w := range proj {
				sum += w
			}

			return sign*score + s.cfg.PenaltyWeight*(sum-1.0)*(sum-1.0)
		},
	}

	x0 := make([]float64, n)
	for ii := range x0 {
		x0[ii] = 1.0 / float64(n)
	}

	settings := &goopt.Settings{
		MajorIterations:   s.cfg.MaxIterations,
		GradientThreshold: s.cfg.GradientThreshold,
	}

	// Nelder-Mead handles the non-smooth drawdown objective; fall back to
	// BFGS with finite-difference gradients when it fails outright
	solution, err := goopt.Minimize(problem, x0, settings, &goopt.NelderMead{})
	if err != nil || solution == nil || !converged(solution.Status) {
		retry, retryErr := goopt.Minimize(problem, x0, settings, &goopt.BFGS{})
		if retryErr == nil && retry != nil {
			if solution == nil || converged(retry.Status) || !converged(solution.Status) && retry.F < solution.F {
				solution = retry
				err = retryErr
			}
		}
	}

	if solution == nil {
		log.Warn().Err(err).Str("Objective", string(obj.Kind)).Msg("solver produced no iterate")
		weights := portfolio.UniformWeights(assets)
		return &Result{
			Objective: obj.Kind,
			Weights:   weights,
			Value:     obj.score(s.returns, weights),
			Converged: false,
		}
	}

	weights := portfolio.FromSlice(assets, projectToBox(solution.X)).Normalize()
	value := obj.score(s.returns, weights)

	isConverged := converged(solution.Status)
	if !isConverged {
		log.Debug().Str("Objective", string(obj.Kind)).Str("Status", solution.Status.String()).Msg("solver did not converge; returning best iterate")
	}

	return &Result{
		Objective: obj.Kind,
		Weights:   weights,
		Value:     value,
		Converged: isConverged,
	}
}

// projectToBox clamps every weight to [0, 1]
func projectToBox(x []float64) []float64 {
	proj := make([]float64, len(x))
	for ii := range x {
		proj[ii] = math.Max(0.0, math.Min(1.0, x[ii]))
	}
	return proj
}

func converged(status goopt.Status) bool {
	switch status {
	case goopt.Success, goopt.FunctionConvergence, goopt.GradientThreshold, goopt.FunctionThreshold:
		return true
	}
	return false
}
