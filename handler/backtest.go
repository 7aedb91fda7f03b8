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

package handler

import (
	"github.com/alexfdez1010/geometric-portfolio/common"
	"github.com/alexfdez1010/geometric-portfolio/metrics"
	"github.com/alexfdez1010/geometric-portfolio/portfolio"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// BacktestRequest describes a threshold rebalancing simulation
type BacktestRequest struct {
	Weights        map[string]float64 `json:"weights"`
	StartDate      string             `json:"startDate"`
	EndDate        string             `json:"endDate"`
	InitialCapital float64            `json:"initialCapital"`
	Threshold      float64            `json:"threshold"`
	FixedCost      float64            `json:"fixedCost"`
	VariableCost   float64            `json:"variableCost"`
	RiskFreeRate   float64            `json:"riskFreeRate"`
}

// BacktestResponse carries the simulation outcome and a performance summary
// of the realized return stream
type BacktestResponse struct {
	Summary       *metrics.Summary `json:"summary"`
	NumRebalances int              `json:"numRebalances"`
	TotalCost     float64          `json:"totalCost"`
	FinalValue    float64          `json:"finalValue"`
}

// Backtest simulates a fixed target allocation with threshold rebalancing
// and transaction costs
//
// POST /v1/backtest
func (h *Handler) Backtest(c *fiber.Ctx) error {
	var req BacktestRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn().Err(err).Msg("cannot parse backtest request body")
		return fiber.ErrBadRequest
	}

	startDate, endDate, err := parseBodyDates(req.StartDate, req.EndDate)
	if err != nil {
		return err
	}

	weights, err := portfolio.NewWeightVector(req.Weights)
	if err != nil {
		return statusFromError(err)
	}

	prices, err := h.Manager.FetchPrices(c.Context(), weights.Assets, startDate, endDate)
	if err != nil {
		return statusFromError(err)
	}

	if req.InitialCapital == 0 {
		req.InitialCapital = 10_000
	}

	result, err := portfolio.Backtest(&portfolio.BacktestConfig{
		InitialCapital: req.InitialCapital,
		Weights:        weights,
		Threshold:      req.Threshold,
		FixedCost:      req.FixedCost,
		VariableCost:   req.VariableCost,
	}, prices)
	if err != nil {
		return statusFromError(err)
	}

	return c.JSON(BacktestResponse{
		Summary:       metrics.NewSummary(result.Returns, req.RiskFreeRate, common.TradingDaysPerYear),
		NumRebalances: result.NumRebalances,
		TotalCost:     result.TotalCost,
		FinalValue:    result.FinalValue,
	})
}
