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
	"strconv"
	"strings"
	"time"

	"github.com/alexfdez1010/geometric-portfolio/data"
	"github.com/alexfdez1010/geometric-portfolio/portfolio"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// dateRange resolves the configured start/end dates to concrete times
func dateRange() (time.Time, time.Time) {
	startStr := viper.GetString("data.start_date")
	startDate, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		log.Fatal().Err(err).Str("StartDate", startStr).Msg("cannot parse start date")
	}

	endStr := viper.GetString("data.end_date")
	var endDate time.Time
	if endStr == "" || endStr == "now" {
		year, month, day := time.Now().Date()
		endDate = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	} else {
		endDate, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			log.Fatal().Err(err).Str("EndDate", endStr).Msg("cannot parse end date")
		}
	}

	return startDate, endDate
}

func newManager() *data.Manager {
	return data.NewManager(data.NewStooq())
}

// parseWeightArgs turns TICKER=WEIGHT command line arguments into a weight
// vector; bare tickers get equal weight
func parseWeightArgs(args []string) (*portfolio.WeightVector, error) {
	weighted := make(map[string]float64, len(args))
	bare := make([]string, 0, len(args))
	for _, arg := range args {
		if ticker, weightStr, found := strings.Cut(arg, "="); found {
			weight, err := strconv.ParseFloat(weightStr, 64)
			if err != nil {
				return nil, err
			}
			weighted[ticker] = weight
		} else {
			bare = append(bare, arg)
		}
	}

	if len(weighted) == 0 {
		return portfolio.UniformWeights(bare), nil
	}
	if len(bare) != 0 {
		return nil, portfolio.ErrInvalidWeights
	}

	return portfolio.NewWeightVector(weighted)
}
