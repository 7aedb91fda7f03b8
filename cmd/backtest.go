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
	backtestCmd.Flags().Float64("initial-capital", 10_000, "Starting portfolio value")
	viper.BindPFlag("backtest.initial_capital", backtestCmd.Flags().Lookup("initial-capital"))

	backtestCmd.Flags().Float64("threshold", 0.05, "Absolute weight drift that triggers a rebalance")
	viper.BindPFlag("backtest.threshold", backtestCmd.Flags().Lookup("threshold"))

	backtestCmd.Flags().Float64("fixed-cost", 0.0, "Fixed cost charged per trade")
	viper.BindPFlag("backtest.fixed_cost", backtestCmd.Flags().Lookup("fixed-cost"))

	backtestCmd.Flags().Float64("variable-cost", 0.0, "Cost charged per unit of traded value")
	viper.BindPFlag("backtest.variable_cost", backtestCmd.Flags().Lookup("variable-cost"))

	rootCmd.AddCommand(backtestCmd)
}

var backtestCmd = &cobra.Command{
	Use:   "backtest <ticker>=<weight> [<ticker>=<weight> ...]",
	Short: "simulate a fixed allocation with threshold rebalancing and costs",
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

		prices, err := manager.FetchPrices(ctx, weights.Assets, startDate, endDate)
		if err != nil {
			log.Fatal().Err(err).Strs("Tickers", weights.Assets).Msg("cannot load prices")
		}

		result, err := portfolio.Backtest(&portfolio.BacktestConfig{
			InitialCapital: viper.GetFloat64("backtest.initial_capital"),
			Weights:        weights,
			Threshold:      viper.GetFloat64("backtest.threshold"),
			FixedCost:      viper.GetFloat64("backtest.fixed_cost"),
			VariableCost:   viper.GetFloat64("backtest.variable_cost"),
		}, prices)
		if err != nil {
			log.Fatal().Err(err).Msg("backtest failed")
		}

		summary := metrics.NewSummary(result.Returns, viper.GetFloat64("metrics.risk_free_rate"), common.TradingDaysPerYear)
		fmt.Println(summary.Table())
		fmt.Println("Final allocation:")
		fmt.Println(result.WeightHistory.Last().Table())
		fmt.Printf("Rebalances:  %d\n", result.NumRebalances)
		fmt.Printf("Total cost:  %.2f\n", result.TotalCost)
		fmt.Printf("Final value: %.2f\n", result.FinalValue)
	},
}
