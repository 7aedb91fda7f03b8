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

package portfolio

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// WeightSumTolerance is the maximum deviation from 1.0 allowed for the sum of
// a valid weight vector
const WeightSumTolerance = 1e-6

// WeightVector is an ordered mapping from asset identifiers to allocation
// weights. A valid allocation has non-negative weights summing to 1 within
// WeightSumTolerance; intermediate vectors produced during optimization may
// temporarily violate this and are normalized before use
type WeightVector struct {
	Assets  []string  `json:"assets"`
	Weights []float64 `json:"weights"`
}

// NewWeightVector creates a validated weight vector from an asset to weight
// map. Assets are ordered lexicographically. Returns ErrInvalidWeights when
// any weight is non-finite or negative, or the sum deviates from 1.0 by more
// than WeightSumTolerance
func NewWeightVector(weights map[string]float64) (*WeightVector, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: no assets", ErrInvalidWeights)
	}

	assets := make([]string, 0, len(weights))
	for asset := range weights {
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	w := &WeightVector{
		Assets:  assets,
		Weights: make([]float64, len(assets)),
	}

	sum := 0.0
	for idx, asset := range assets {
		val := weights[asset]
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("%w: weight for %s is not finite", ErrInvalidWeights, asset)
		}
		if val < 0 {
			return nil, fmt.Errorf("%w: weight for %s is negative", ErrInvalidWeights, asset)
		}
		w.Weights[idx] = val
		sum += val
	}

	if math.Abs(sum-1.0) > WeightSumTolerance {
		return nil, fmt.Errorf("%w: weights sum to %f", ErrInvalidWeights, sum)
	}

	return w, nil
}

// UniformWeights creates an equal-weight allocation over the given assets
func UniformWeights(assets []string) *WeightVector {
	sorted := make([]string, len(assets))
	copy(sorted, assets)
	sort.Strings(sorted)

	weights := make([]float64, len(sorted))
	for idx := range weights {
		weights[idx] = 1.0 / float64(len(sorted))
	}

	return &WeightVector{
		Assets:  sorted,
		Weights: weights,
	}
}

// FromSlice creates an unvalidated weight vector pairing assets with vals in
// the given order; used by the optimizers for intermediate candidates
func FromSlice(assets []string, vals []float64) *WeightVector {
	return &WeightVector{
		Assets:  assets,
		Weights: vals,
	}
}

// Get returns the weight for the requested asset
func (w *WeightVector) Get(asset string) (float64, bool) {
	for idx, a := range w.Assets {
		if a == asset {
			return w.Weights[idx], true
		}
	}
	return 0, false
}

// Sum returns the total of all weights
func (w *WeightVector) Sum() float64 {
	return floats.Sum(w.Weights)
}

// Normalize returns a new weight vector with negative weights clamped to
// zero and the remainder rescaled to sum to 1. A vector that sums to zero is
// replaced with uniform weights
func (w *WeightVector) Normalize() *WeightVector {
	vals := make([]float64, len(w.Weights))
	sum := 0.0
	for idx, val := range w.Weights {
		if val > 0 && !math.IsNaN(val) && !math.IsInf(val, 0) {
			vals[idx] = val
			sum += val
		}
	}

	if sum == 0 {
		return UniformWeights(w.Assets)
	}

	floats.Scale(1.0/sum, vals)
	return &WeightVector{
		Assets:  w.Assets,
		Weights: vals,
	}
}

// AsMap returns the weights as an asset keyed map
func (w *WeightVector) AsMap() map[string]float64 {
	res := make(map[string]float64, len(w.Assets))
	for idx, asset := range w.Assets {
		res[asset] = w.Weights[idx]
	}
	return res
}

func (w *WeightVector) String() string {
	s := "{"
	for idx, asset := range w.Assets {
		if idx > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s: %.4f", asset, w.Weights[idx])
	}
	return s + "}"
}
