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
	"os"
	"time"

	"github.com/alexfdez1010/geometric-portfolio/common"
	"github.com/alexfdez1010/geometric-portfolio/optimization"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	optimizeCmd.Flags().String("strategy", "montecarlo", "Search strategy, one of: montecarlo, solver")
	viper.BindPFlag("optimizer.strategy", optimizeCmd.Flags().Lookup("strategy"))

	optimizeCmd.Flags().Int("samples", optimization.DefaultNumSamples, "Number of random allocations to draw (montecarlo)")
	viper.BindPFlag("optimizer.samples", optimizeCmd.Flags().Lookup("samples"))

	optimizeCmd.Flags().Int64("seed", 0, "Random seed, 0 seeds from the clock (montecarlo)")
	viper.BindPFlag("optimizer.seed", optimizeCmd.Flags().Lookup("seed"))

	rootCmd.AddCommand(optimizeCmd)
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize <ticker> <ticker> [<ticker> ...]",
	Short: "search for allocation weights maximizing growth objectives",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		ctx := context.Background()

		startDate, endDate := dateRange()
		manager := newManager()

		returns, err := manager.FetchReturns(ctx, args, startDate, endDate)
		if err != nil {
			log.Fatal().Err(err).Strs("Tickers", args).Msg("cannot load returns")
		}

		var results []*optimization.Result
		strategy := viper.GetString("optimizer.strategy")
		switch strategy {
		case "montecarlo":
			seed := viper.GetInt64("optimizer.seed")
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			mc := optimization.NewMonteCarlo(returns, seed)
			results = mc.Run(viper.GetInt("optimizer.samples"), optimization.DefaultObjectives())
		case "solver":
			solver := optimization.NewSolver(returns, optimization.DefaultSolverConfig())
			results = solver.Run(optimization.DefaultObjectives())
		default:
			log.Fatal().Str("Strategy", strategy).Msg("unknown optimization strategy")
		}

		printResults(results)
	},
}

func printResults(results []*optimization.Result) {
	for _, result := range results {
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Asset", "Weight"})
		for idx, asset := range result.Weights.Assets {
			table.Append([]string{asset, fmt.Sprintf("%.4f", result.Weights.Weights[idx])})
		}
		table.SetFooter([]string{string(result.Objective), fmt.Sprintf("%.6f", result.Value)})
		table.SetBorder(false)
		table.Render()
		if !result.Converged {
			fmt.Println("  (search did not converge)")
		}
		fmt.Println()
	}
}
