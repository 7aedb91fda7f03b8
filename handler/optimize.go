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
	"time"

	"github.com/alexfdez1010/geometric-portfolio/optimization"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// OptimizeRequest selects assets, a date range and an optimization strategy
type OptimizeRequest struct {
	Tickers    []string `json:"tickers"`
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	Strategy   string   `json:"strategy"`   // "montecarlo" (default) or "solver"
	NumSamples int      `json:"numSamples"` // montecarlo only
	Seed       int64    `json:"seed"`       // montecarlo only
	Objectives []string `json:"objectives"` // defaults to the standard three
}

// OptimizeResponse returns one optimized allocation per objective
type OptimizeResponse struct {
	Results []*optimization.Result `json:"results"`
}

// Optimize searches for allocation weights optimizing the requested
// objectives
//
// POST /v1/optimize
func (h *Handler) Optimize(c *fiber.Ctx) error {
	var req OptimizeRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn().Err(err).Msg("cannot parse optimize request body")
		return fiber.ErrBadRequest
	}

	startDate, endDate, err := parseBodyDates(req.StartDate, req.EndDate)
	if err != nil {
		return err
	}

	objectives, err := resolveObjectives(req.Objectives)
	if err != nil {
		log.Warn().Err(err).Strs("Objectives", req.Objectives).Msg("unknown objective requested")
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	returns, err := h.Manager.FetchReturns(c.Context(), req.Tickers, startDate, endDate)
	if err != nil {
		return statusFromError(err)
	}

	var results []*optimization.Result
	switch req.Strategy {
	case "", "montecarlo":
		seed := req.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		mc := optimization.NewMonteCarlo(returns, seed)
		results = mc.Run(req.NumSamples, objectives)
	case "solver":
		solver := optimization.NewSolver(returns, optimization.DefaultSolverConfig())
		results = solver.Run(objectives)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unknown strategy: "+req.Strategy)
	}

	return c.JSON(OptimizeResponse{Results: results})
}

func resolveObjectives(names []string) ([]optimization.Objective, error) {
	if len(names) == 0 {
		return optimization.DefaultObjectives(), nil
	}

	objectives := make([]optimization.Objective, 0, len(names))
	for _, name := range names {
		obj, err := optimization.NewObjective(optimization.ObjectiveKind(name))
		if err != nil {
			return nil, err
		}
		objectives = append(objectives, obj)
	}
	return objectives, nil
}

func parseBodyDates(startDateStr, endDateStr string) (time.Time, time.Time, error) {
	if startDateStr == "" {
		startDateStr = "1990-01-01"
	}

	startDate, err := time.Parse("2006-01-02", startDateStr)
	if err != nil {
		log.Warn().Err(err).Str("StartDateStr", startDateStr).Msg("cannot parse start date")
		return time.Time{}, time.Time{}, fiber.ErrNotAcceptable
	}

	var endDate time.Time
	if endDateStr == "" || endDateStr == "now" {
		year, month, day := time.Now().Date()
		endDate = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	} else {
		endDate, err = time.Parse("2006-01-02", endDateStr)
		if err != nil {
			log.Warn().Err(err).Str("EndDateStr", endDateStr).Msg("cannot parse end date")
			return time.Time{}, time.Time{}, fiber.ErrNotAcceptable
		}
	}

	return startDate, endDate, nil
}
