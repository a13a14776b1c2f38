// Copyright 2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package funds

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the identifier does not correspond to any
	// registrant, series, or share class known to the data source. It is
	// not a transient condition and is never retried.
	ErrNotFound = errors.New("entity not found")
)

// AmbiguousTickerError reports a ticker that maps to more than one share
// class. Tickers are unique within EDGAR's fund dictionary, so this is a
// data-source invariant violation; it is surfaced rather than silently
// resolved by picking one of the candidates.
type AmbiguousTickerError struct {
	Ticker   string
	ClassIDs []string
}

func (err *AmbiguousTickerError) Error() string {
	return fmt.Sprintf("ticker %s is ambiguous: matches classes %s", err.Ticker,
		strings.Join(err.ClassIDs, ", "))
}
