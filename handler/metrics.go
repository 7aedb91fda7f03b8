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
	"strconv"

	"github.com/alexfdez1010/geometric-portfolio/common"
	"github.com/alexfdez1010/geometric-portfolio/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Metrics computes the summary statistics for a single ticker
//
// GET /v1/metrics/:ticker?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD&riskFree=0.0
func (h *Handler) Metrics(c *fiber.Ctx) error {
	ticker := c.Params("ticker")

	startDate, endDate, err := parseDateRange(c)
	if err != nil {
		return err
	}

	riskFree, err := strconv.ParseFloat(c.Query("riskFree", "0"), 64)
	if err != nil {
		log.Warn().Err(err).Str("RiskFree", c.Query("riskFree")).Msg("cannot parse riskFree query parameter")
		return fiber.ErrBadRequest
	}

	returns, err := h.Manager.FetchReturns(c.Context(), []string{ticker}, startDate, endDate)
	if err != nil {
		return statusFromError(err)
	}

	rs := returns.Col(returns.ColNames[0])
	return c.JSON(metrics.NewSummary(rs, riskFree, common.TradingDaysPerYear))
}

// WealthResponse pairs dates with cumulative wealth values for charting
type WealthResponse struct {
	Ticker string    `json:"ticker"`
	Dates  []string  `json:"dates"`
	Wealth []float64 `json:"wealth"`
}

// Wealth returns the cumulative wealth curve of a single ticker
//
// GET /v1/wealth/:ticker?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD&initial=10000
func (h *Handler) Wealth(c *fiber.Ctx) error {
	ticker := c.Params("ticker")

	startDate, endDate, err := parseDateRange(c)
	if err != nil {
		return err
	}

	initial, err := strconv.ParseFloat(c.Query("initial", "10000"), 64)
	if err != nil {
		log.Warn().Err(err).Str("Initial", c.Query("initial")).Msg("cannot parse initial query parameter")
		return fiber.ErrBadRequest
	}

	returns, err := h.Manager.FetchReturns(c.Context(), []string{ticker}, startDate, endDate)
	if err != nil {
		return statusFromError(err)
	}

	wealth := metrics.Wealth(returns.Col(returns.ColNames[0]), initial)

	resp := WealthResponse{
		Ticker: returns.ColNames[0],
		Dates:  make([]string, wealth.Len()),
		Wealth: wealth.Vals,
	}
	for idx, date := range wealth.Dates {
		resp.Dates[idx] = date.Format("2006-01-02")
	}

	return c.JSON(resp)
}
