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
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexfdez1010/geometric-portfolio/dataframe"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// stooq retrieves end-of-day close prices from the stooq.com CSV download
// endpoint. No API key is required
type stooq struct {
	baseURL string
	client  *http.Client
}

// NewStooq creates a new stooq data provider. The base URL is taken from the
// `data.stooq_url` configuration key when set, which also lets tests point
// the provider at a mock server
func NewStooq() Provider {
	baseURL := viper.GetString("data.stooq_url")
	if baseURL == "" {
		baseURL = "https://stooq.com"
	}

	return &stooq{
		baseURL: baseURL,
		client:  http.DefaultClient,
	}
}

// GetClosePrices downloads daily closes for the requested ticker. US tickers
// are suffixed with `.us` per stooq's symbology unless the caller already
// qualified the symbol
func (s *stooq) GetClosePrices(ctx context.Context, ticker string, begin, end time.Time) (*dataframe.DataFrame, error) {
	if end.Before(begin) {
		return nil, ErrInvalidTimeRange
	}

	symbol := strings.ToLower(ticker)
	if !strings.Contains(symbol, ".") {
		symbol += ".us"
	}

	url := fmt.Sprintf("%s/q/d/l/?s=%s&d1=%s&d2=%s&i=d", s.baseURL, symbol, begin.Format("20060102"), end.Format("20060102"))
	subLog := log.With().Str("Symbol", symbol).Str("Url", url).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		subLog.Error().Err(err).Msg("could not build stooq request")
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		subLog.Error().Err(err).Msg("stooq http request failed")
		return nil, fmt.Errorf("%w: %s", ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		subLog.Error().Int("StatusCode", resp.StatusCode).Msg("stooq returned invalid response code")
		return nil, fmt.Errorf("%w: status code %d", ErrProviderFailure, resp.StatusCode)
	}

	df, err := s.parseCSV(resp.Body, strings.ToUpper(ticker))
	if err != nil {
		subLog.Error().Err(err).Msg("could not parse stooq response")
		return nil, err
	}

	if df.Len() == 0 {
		subLog.Warn().Msg("no price data for symbol")
		return nil, ErrNoData
	}

	return df, nil
}

// parseCSV reads stooq's `Date,Open,High,Low,Close,Volume` format into a
// single-column dataframe of closes
func (s *stooq) parseCSV(r io.Reader, colName string) (*dataframe.DataFrame, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // volume is missing for some instruments

	df := dataframe.New(colName)

	header := true
	dateIdx := 0
	closeIdx := 4

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if header {
			header = false
			for idx, field := range record {
				switch strings.TrimSpace(field) {
				case "Date":
					dateIdx = idx
				case "Close":
					closeIdx = idx
				}
			}
			continue
		}

		if len(record) <= closeIdx {
			continue
		}

		date, err := time.Parse("2006-01-02", record[dateIdx])
		if err != nil {
			// stooq answers "No data" as a plain text body; treat any
			// unparseable row as absent data
			continue
		}

		closePrice, err := strconv.ParseFloat(record[closeIdx], 64)
		if err != nil {
			continue
		}

		df.InsertRow(date, closePrice)
	}

	return df, nil
}
