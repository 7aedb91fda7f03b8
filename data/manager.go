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

package data

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexfdez1010/geometric-portfolio/common"
	"github.com/alexfdez1010/geometric-portfolio/dataframe"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Manager fetches price history through a Provider, aligns multi-asset
// requests on a common date index, and caches results in-process
type Manager struct {
	provider Provider
	cache    *lru.Cache
}

// NewManager creates a manager around the given provider. The cache size is
// taken from the `data.cache_size` configuration key (default 64 entries)
func NewManager(provider Provider) *Manager {
	size := viper.GetInt("data.cache_size")
	if size <= 0 {
		size = 64
	}

	cache, err := lru.New(size)
	if err != nil {
		log.Panic().Err(err).Msg("could not create data cache")
	}

	return &Manager{
		provider: provider,
		cache:    cache,
	}
}

// FetchPrices retrieves daily close prices for every ticker and inner-joins
// them on dates where all assets traded; earlier partial history is
// truncated to the first date every asset has data. Returns ErrNoData when
// the aligned result is empty
func (m *Manager) FetchPrices(ctx context.Context, tickers []string, begin, end time.Time) (*dataframe.DataFrame, error) {
	if len(tickers) == 0 {
		return nil, ErrNoTickers
	}

	if end.Before(begin) {
		return nil, ErrInvalidTimeRange
	}

	requested := make([]string, len(tickers))
	copy(requested, tickers)
	common.ArrToUpper(requested)

	cacheKey := fmt.Sprintf("%s:%s:%s", strings.Join(requested, ","), begin.Format("20060102"), end.Format("20060102"))
	if cached, ok := m.cache.Get(cacheKey); ok {
		return cached.(*dataframe.DataFrame).Copy(), nil
	}

	subLog := log.With().Strs("Tickers", requested).Time("Begin", begin).Time("End", end).Logger()

	frames := make([]*dataframe.DataFrame, 0, len(requested))
	for _, ticker := range requested {
		df, err := m.provider.GetClosePrices(ctx, ticker, begin, end)
		if err != nil {
			subLog.Error().Err(err).Str("Ticker", ticker).Msg("could not fetch prices")
			return nil, err
		}
		frames = append(frames, df)
	}

	aligned := dataframe.Align(frames...)
	aligned.Drop(math.NaN())

	if aligned.Len() == 0 {
		subLog.Warn().Msg("no common trading days for requested assets")
		return nil, ErrNoData
	}

	m.cache.Add(cacheKey, aligned)
	return aligned.Copy(), nil
}

// FetchReturns retrieves aligned prices and converts them to daily
// fractional returns. The result has one fewer row than the aligned prices
// and no missing values
func (m *Manager) FetchReturns(ctx context.Context, tickers []string, begin, end time.Time) (*dataframe.DataFrame, error) {
	prices, err := m.FetchPrices(ctx, tickers, begin, end)
	if err != nil {
		return nil, err
	}

	returns := prices.PctChange()
	returns.Drop(math.NaN())

	if returns.Len() == 0 {
		return nil, ErrNoData
	}

	return returns, nil
}
