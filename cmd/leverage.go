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
	"github.com/alexfdez1010/geometric-portfolio/leverage"
	"github.com/alexfdez1010/geometric-portfolio/portfolio"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	leverageCmd.Flags().Float64("min-leverage", 0.0, "Lowest leverage multiplier to evaluate")
	viper.BindPFlag("leverage.min", leverageCmd.Flags().Lookup("min-leverage"))

	leverageCmd.Flags().Float64("max-leverage", 3.0, "Highest leverage multiplier to evaluate")
	viper.BindPFlag("leverage.max", leverageCmd.Flags().Lookup("max-leverage"))

	leverageCmd.Flags().Int("points", leverage.DefaultNumPoints, "Number of leverage levels to evaluate")
	viper.BindPFlag("leverage.points", leverageCmd.Flags().Lookup("points"))

	rootCmd.AddCommand(leverageCmd)
}

var leverageCmd = &cobra.Command{
	Use:   "leverage <ticker> [<ticker>=<weight> ...]",
	Short: "sweep leverage multipliers over a portfolio's return stream",
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

		rs := portfolio.ComputeReturns(returns, weights)
		table := leverage.Sweep(rs, &leverage.Config{
			MinLeverage:  viper.GetFloat64("leverage.min"),
			MaxLeverage:  viper.GetFloat64("leverage.max"),
			NumPoints:    viper.GetInt("leverage.points"),
			RiskFreeRate: viper.GetFloat64("metrics.risk_free_rate"),
		})

		fmt.Println(table.Render())
		if table.Best != nil {
			fmt.Printf("Best leverage: %.3f (geometric mean %.6f)\n", table.Best.Leverage, table.Best.GeometricMean)
		}
	},
}
