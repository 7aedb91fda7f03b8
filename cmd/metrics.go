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

package cmd

import (
	"context"
	"fmt"

	"github.com/alexfdez1010/geometric-portfolio/common"
	"github.com/alexfdez1010/geometric-portfolio/metrics"
	"github.com/alexfdez1010/geometric-portfolio/portfolio"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(metricsCmd)
}

var metricsCmd = &cobra.Command{
	Use:   "metrics <ticker> [<ticker>=<weight> ...]",
	Short: "compute performance metrics for an asset or a weighted portfolio",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		ctx := context.Background()

		weights, err := parseWeightArgs(args)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot parse ticker weights")
		}

		startDate, endDate := dateRange()
		manager := newManager()

		returns, err := manager.FetchReturns(ctx, weights.Assets, startDate, endDate)
		if err != nil {
			log.Fatal().Err(err).Strs("Tickers", weights.Assets).Msg("cannot load returns")
		}

		riskFree := viper.GetFloat64("metrics.risk_free_rate")

		for _, summary := range metrics.FrameSummaries(returns, riskFree, common.TradingDaysPerYear) {
			fmt.Println(summary.Table())
		}

		// a single asset is its own portfolio; skip the duplicate table
		if len(weights.Assets) > 1 {
			rs := portfolio.ComputeReturns(returns, weights)
			summary := metrics.NewSummary(rs, riskFree, common.TradingDaysPerYear)
			fmt.Println(summary.Table())
		}
	},
}
