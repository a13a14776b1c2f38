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
	"strings"
)

type Kind string

const (
	KindCIK      Kind = "cik"
	KindSeriesID Kind = "series"
	KindClassID  Kind = "class"
	KindTicker   Kind = "ticker"
)

const (
	seriesPrefix = 'S'
	classPrefix  = 'C'

	// maxCIKDigits bounds the all-digit CIK rule; longer numeric strings
	// fall through to the ticker catch-all
	maxCIKDigits = 10

	maxIDDigits = 10
)

// Classify inspects an identifier and reports what kind of EDGAR entity it
// names. Matching is structural and evaluated in priority order: series id,
// class id, CIK, then ticker. Classification never fails -- any string that
// matches none of the structural patterns is treated as a candidate ticker.
func Classify(identifier string) Kind {
	identifier = strings.TrimSpace(identifier)

	switch {
	case matchesPrefixedID(identifier, seriesPrefix):
		return KindSeriesID
	case matchesPrefixedID(identifier, classPrefix):
		return KindClassID
	case isCIK(identifier):
		return KindCIK
	}

	return KindTicker
}

// CanonicalID normalizes an identifier for use as a lookup key: series and
// class ids are upper-cased, CIKs are zero-padded to 10 digits, and tickers
// are upper-cased.
func CanonicalID(kind Kind, identifier string) string {
	identifier = strings.TrimSpace(identifier)

	switch kind {
	case KindCIK:
		return PadCIK(identifier)
	case KindSeriesID, KindClassID, KindTicker:
		return strings.ToUpper(identifier)
	}

	return identifier
}

// PadCIK zero-pads a numeric CIK to the conventional 10-digit form
func PadCIK(cik string) string {
	cik = strings.TrimSpace(cik)
	if len(cik) >= maxCIKDigits {
		return cik
	}

	return strings.Repeat("0", maxCIKDigits-len(cik)) + cik
}

func matchesPrefixedID(identifier string, prefix byte) bool {
	if len(identifier) < 2 || len(identifier) > maxIDDigits+1 {
		return false
	}

	first := identifier[0]
	if first != prefix && first != prefix+('a'-'A') {
		return false
	}

	return allDigits(identifier[1:])
}

func isCIK(identifier string) bool {
	if len(identifier) == 0 || len(identifier) > maxCIKDigits {
		return false
	}

	return allDigits(identifier)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
