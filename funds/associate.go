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
	"unicode"
)

// tickerPrefixLen is the shared leading-letter count used by the
// ticker-prefix heuristic; fund families conventionally reuse the first
// three letters across a series' share classes (FCNTX / FCNKX)
const tickerPrefixLen = 3

// Association is the outcome of the hierarchy association engine. SeriesID
// is empty when no heuristic produced a unique match; that is a valid
// result, not an error.
type Association struct {
	SeriesID   string
	Confidence Confidence
}

// Unresolved reports whether the engine failed to determine an owning series
func (assoc Association) Unresolved() bool {
	return assoc.SeriesID == ""
}

// Associate determines the owning series of a share class from the
// population of series known under the same registrant. Heuristics are
// tried in confidence order and the first match wins:
//
//  1. an explicit series id on the raw class record
//  2. the "<Series Name> Class <X>" naming convention matched against the
//     company's series names
//  3. a ticker prefix shared with the classes of exactly one series
//
// An ambiguous match at any step is treated as no match for that step; the
// engine never picks arbitrarily.
func Associate(class *ClassRecord, series []*SeriesRecord, classesBySeries map[string][]*ClassRecord) Association {
	if class.SeriesID != "" {
		return Association{SeriesID: class.SeriesID, Confidence: ConfidenceExplicit}
	}

	if seriesID := matchSeriesName(class.Name, series); seriesID != "" {
		return Association{SeriesID: seriesID, Confidence: ConfidenceNamePattern}
	}

	if seriesID := matchTickerPrefix(class.Ticker, series, classesBySeries); seriesID != "" {
		return Association{SeriesID: seriesID, Confidence: ConfidenceTickerPrefix}
	}

	return Association{}
}

// matchSeriesName extracts the series name from a class name following the
// "<Series Name> Class <X>" convention and looks it up case-insensitively
// among the company's series. Returns empty when the convention does not
// apply or when the extracted name matches zero or multiple series.
func matchSeriesName(className string, series []*SeriesRecord) string {
	candidate := stripClassSuffix(className)
	if candidate == "" {
		return ""
	}

	matched := ""
	for _, s := range series {
		if strings.EqualFold(strings.TrimSpace(s.Name), candidate) {
			if matched != "" && matched != s.SeriesID {
				return ""
			}
			matched = s.SeriesID
		}
	}

	return matched
}

// stripClassSuffix removes a trailing "Class <X>" designation (and any
// separator punctuation before it) from a class name. Returns empty when
// the name carries no class designation.
func stripClassSuffix(className string) string {
	lower := strings.ToLower(className)

	idx := strings.LastIndex(lower, "class ")
	if idx < 0 {
		return ""
	}

	// the designation after "Class" is short (K, A, Institutional, ...);
	// a long remainder means "class" was part of the fund name itself
	designation := strings.TrimSpace(className[idx+len("class "):])
	if designation == "" || (strings.ContainsAny(designation, " \t") && len(designation) > 20) {
		return ""
	}

	candidate := strings.TrimSpace(className[:idx])
	candidate = strings.TrimRight(candidate, "-–:, ")

	return strings.TrimSpace(candidate)
}

// matchTickerPrefix associates a class with the single series whose other
// classes share the class ticker's leading letters. Multiple matching
// series means the heuristic is ambiguous and reports no match.
func matchTickerPrefix(ticker string, series []*SeriesRecord, classesBySeries map[string][]*ClassRecord) string {
	prefix := tickerPrefix(ticker)
	if prefix == "" {
		return ""
	}

	matched := ""
	for _, s := range series {
		for _, sibling := range classesBySeries[s.SeriesID] {
			if tickerPrefix(sibling.Ticker) != prefix {
				continue
			}

			if matched != "" && matched != s.SeriesID {
				return ""
			}
			matched = s.SeriesID
			break
		}
	}

	return matched
}

func tickerPrefix(ticker string) string {
	if len(ticker) < tickerPrefixLen {
		return ""
	}

	prefix := strings.ToUpper(ticker[:tickerPrefixLen])
	for _, r := range prefix {
		if !unicode.IsLetter(r) {
			return ""
		}
	}

	return prefix
}
