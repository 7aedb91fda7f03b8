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

package router

import (
	"github.com/alexfdez1010/geometric-portfolio/handler"
	"github.com/alexfdez1010/geometric-portfolio/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes setup router api
func SetupRoutes(app *fiber.App, h *handler.Handler) {
	api := app.Group("/v1", middleware.NewLogger())
	api.Get("/ping", h.Ping)

	// Metrics
	api.Get("/metrics/:ticker", h.Metrics)
	api.Get("/wealth/:ticker", h.Wealth)

	// Portfolio analysis
	api.Post("/optimize", h.Optimize)
	api.Post("/backtest", h.Backtest)
	api.Post("/leverage", h.Leverage)
}
