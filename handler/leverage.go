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
	"github.com/alexfdez1010/geometric-portfolio/leverage"
	"github.com/alexfdez1010/geometric-portfolio/portfolio"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// LeverageRequest describes a leverage sweep over a portfolio's return
// stream
type LeverageRequest struct {
	Weights      map[string]float64 `json:"weights"`
	StartDate    string             `json:"startDate"`
	EndDate      string             `json:"endDate"`
	MinLeverage  float64            `json:"minLeverage"`
	MaxLeverage  float64            `json:"maxLeverage"`
	NumPoints    int                `json:"numPoints"`
	RiskFreeRate float64            `json:"riskFreeRate"`
}

// Leverage sweeps a range of leverage multipliers over the requested
// portfolio and reports growth and volatility at each point
//
// POST /v1/leverage
func (h *Handler) Leverage(c *fiber.Ctx) error {
	var req LeverageRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn().Err(err).Msg("cannot parse leverage request body")
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

	returns, err := h.Manager.FetchReturns(c.Context(), weights.Assets, startDate, endDate)
	if err != nil {
		return statusFromError(err)
	}

	portReturns := portfolio.ComputeReturns(returns, weights)

	if req.MaxLeverage == 0 {
		req.MaxLeverage = 3.0
	}

	table := leverage.Sweep(portReturns, &leverage.Config{
		MinLeverage:  req.MinLeverage,
		MaxLeverage:  req.MaxLeverage,
		NumPoints:    req.NumPoints,
		RiskFreeRate: req.RiskFreeRate,
	})

	return c.JSON(table)
}
