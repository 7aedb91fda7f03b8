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
	"fmt"
	"os"

	"github.com/alexfdez1010/geometric-portfolio/common"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Logging configuration
	viper.BindEnv("log.level", "GEOPORT_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "GEOPORT_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "GEOPORT_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stdout", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	rootCmd.PersistentFlags().Bool("log-pretty", false, "Print console formatted log messages")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))

	// Data configuration
	viper.BindEnv("data.stooq_url", "GEOPORT_STOOQ_URL")
	rootCmd.PersistentFlags().String("stooq-url", "https://stooq.com", "Base URL of the stooq price download service")
	viper.BindPFlag("data.stooq_url", rootCmd.PersistentFlags().Lookup("stooq-url"))

	rootCmd.PersistentFlags().Int("cache-size", 64, "Number of price frames to keep in the in-memory cache")
	viper.BindPFlag("data.cache_size", rootCmd.PersistentFlags().Lookup("cache-size"))

	rootCmd.PersistentFlags().String("start-date", "1990-01-01", "Earliest date to load quotes for (YYYY-MM-dd)")
	viper.BindPFlag("data.start_date", rootCmd.PersistentFlags().Lookup("start-date"))

	rootCmd.PersistentFlags().String("end-date", "now", "Latest date to load quotes for (YYYY-MM-dd or 'now')")
	viper.BindPFlag("data.end_date", rootCmd.PersistentFlags().Lookup("end-date"))

	rootCmd.PersistentFlags().Float64("risk-free-rate", 0.0, "Annual risk free rate used by ratio metrics")
	viper.BindPFlag("metrics.risk_free_rate", rootCmd.PersistentFlags().Lookup("risk-free-rate"))
}

var rootCmd = &cobra.Command{
	Use:     "geoport",
	Version: common.CurrentVersion.String(),
	Short:   "Geometric portfolio explorer",
	Long: `Explore portfolio allocations by their geometric growth rate. Compute
performance metrics, optimize allocation weights over the simplex, simulate
threshold rebalancing with transaction costs, and sweep leverage levels.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
