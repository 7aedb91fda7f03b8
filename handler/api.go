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

// Package handler exposes the core computations over HTTP. Handlers only
// translate between the wire format and the core packages; no portfolio
// math lives here.
package handler

import (
	"errors"
	"time"

	"github.com/alexfdez1010/geometric-portfolio/data"
	"github.com/alexfdez1010/geometric-portfolio/portfolio"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handler bundles the dependencies shared by all routes
type Handler struct {
	Manager *data.Manager
}

// New creates a handler set backed by the given data manager
func New(manager *data.Manager) *Handler {
	return &Handler{Manager: manager}
}

// PingResponse is returned by the health check endpoint
type PingResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"API is alive"`
	Time    string `json:"time" example:"2024-06-19T08:09:10.115924-05:00"`
}

// Ping is a health check
func (h *Handler) Ping(c *fiber.Ctx) error {
	now, err := time.Now().MarshalText()
	if err != nil {
		log.Error().Err(err).Msg("error while getting time in ping")
		return c.JSON(PingResponse{
			Status:  "error",
			Message: err.Error(),
		})
	}

	return c.JSON(PingResponse{
		Status:  "success",
		Message: "API is alive",
		Time:    string(now),
	})
}

// parseDateRange reads startDate/endDate query parameters; endDate defaults
// to today and startDate to 1990-01-01
func parseDateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	startDateStr := c.Query("startDate", "1990-01-01")
	endDateStr := c.Query("endDate", "now")

	startDate, err := time.Parse("2006-01-02", startDateStr)
	if err != nil {
		log.Warn().Err(err).Str("StartDateStr", startDateStr).Msg("cannot parse start date query parameter")
		return time.Time{}, time.Time{}, fiber.ErrNotAcceptable
	}

	var endDate time.Time
	if endDateStr == "now" {
		year, month, day := time.Now().Date()
		endDate = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	} else {
		endDate, err = time.Parse("2006-01-02", endDateStr)
		if err != nil {
			log.Warn().Err(err).Str("EndDateStr", endDateStr).Msg("cannot parse end date query parameter")
			return time.Time{}, time.Time{}, fiber.ErrNotAcceptable
		}
	}

	return startDate, endDate, nil
}

// statusFromError maps core errors to HTTP statuses
func statusFromError(err error) *fiber.Error {
	switch {
	case errors.Is(err, data.ErrNoData), errors.Is(err, portfolio.ErrNoData):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, data.ErrNoTickers),
		errors.Is(err, data.ErrInvalidTimeRange),
		errors.Is(err, portfolio.ErrInvalidWeights):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return fiber.ErrInternalServerError
}
