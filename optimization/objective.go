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

// Package optimization finds allocation weights on the probability simplex
// (non-negative, summing to 1) optimizing scalar objectives over historical
// return series. Two interchangeable strategies are provided: broad random
// sampling (MonteCarlo) and numerical constrained optimization (Solver).
package optimization

import (
	"fmt"

	"github.com/alexfdez1010/geometric-portfolio/common"
	"github.com/alexfdez1010/geometric-portfolio/dataframe"
	"github.com/alexfdez1010/geometric-portfolio/metrics"
	"github.com/alexfdez1010/geometric-portfolio/portfolio"
)

// Direction states whether an objective is maximized or minimized
type Direction int

const (
	Maximize Direction = iota
	Minimize
)

// ObjectiveKind names one of the supported optimization criteria
type ObjectiveKind string

const (
	ObjectiveGeometricMean  ObjectiveKind = "geometric-mean"
	ObjectiveMaxDrawdown    ObjectiveKind = "max-drawdown"
	ObjectiveCalmarRatio    ObjectiveKind = "calmar-ratio"
	ObjectiveAlejandroRatio ObjectiveKind = "alejandro-ratio"
)

// Objective pairs a scoring function with an optimization direction. Each
// objective is optimized independently; there is no joint multi-objective
// solve
type Objective struct {
	Kind      ObjectiveKind
	Direction Direction
	Score     func(rs *dataframe.ReturnSeries) float64
}

// NewObjective builds the named objective. Scoring uses annualized metrics
// with the standard 252 trading days per year
func NewObjective(kind ObjectiveKind) (Objective, error) {
	switch kind {
	case ObjectiveGeometricMean:
		return Objective{
			Kind:      kind,
			Direction: Maximize,
			Score: func(rs *dataframe.ReturnSeries) float64 {
				return metrics.AnnualizedGeometricMean(rs, common.TradingDaysPerYear)
			},
		}, nil
	case ObjectiveMaxDrawdown:
		return Objective{
			Kind:      kind,
			Direction: Minimize,
			Score:     metrics.MaxDrawdown,
		}, nil
	case ObjectiveCalmarRatio:
		return Objective{
			Kind:      kind,
			Direction: Maximize,
			Score: func(rs *dataframe.ReturnSeries) float64 {
				return metrics.CalmarRatio(rs, 1.0, common.TradingDaysPerYear)
			},
		}, nil
	case ObjectiveAlejandroRatio:
		return Objective{
			Kind:      kind,
			Direction: Maximize,
			Score: func(rs *dataframe.ReturnSeries) float64 {
				return metrics.AlejandroRatio(rs, common.TradingDaysPerYear)
			},
		}, nil
	}

	return Objective{}, fmt.Errorf("unknown objective: %s", kind)
}

// DefaultObjectives returns the standard set: maximize the annualized
// geometric mean, minimize the max drawdown, and maximize the calmar ratio
func DefaultObjectives() []Objective {
	objectives := make([]Objective, 0, 3)
	for _, kind := range []ObjectiveKind{ObjectiveGeometricMean, ObjectiveMaxDrawdown, ObjectiveCalmarRatio} {
		obj, err := NewObjective(kind)
		if err != nil {
			panic(err) // unreachable; kinds are known
		}
		objectives = append(objectives, obj)
	}
	return objectives
}

// Result is one optimized weight vector with the objective value it achieved
type Result struct {
	Objective ObjectiveKind           `json:"objective"`
	Weights   *portfolio.WeightVector `json:"weights"`
	Value     float64                 `json:"value"`

	// Converged is false when the numerical solver hit its iteration cap or
	// failed to improve; the weights are still the best iterate found
	Converged bool `json:"converged"`
}

// score evaluates an objective for candidate weights over the return matrix
func (obj *Objective) score(returns *dataframe.DataFrame, weights *portfolio.WeightVector) float64 {
	return obj.Score(portfolio.ComputeReturns(returns, weights))
}

// better reports whether score a improves on score b for this objective's
// direction; NaN never improves anything
func (obj *Objective) better(a, b float64) bool {
	if a != a { // NaN
		return false
	}
	if b != b {
		return true
	}
	if obj.Direction == Maximize {
		return a > b
	}
	return a < b
}
