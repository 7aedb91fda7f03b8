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
	"time"

	"github.com/alexfdez1010/geometric-portfolio/dataframe"
)

// Provider retrieves daily close prices for a single security. The returned
// dataframe has one column named after the requested ticker, limited to the
// requested date range (inclusive)
type Provider interface {
	GetClosePrices(ctx context.Context, ticker string, begin, end time.Time) (*dataframe.DataFrame, error)
}
