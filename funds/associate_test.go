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
package funds_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pvfunds/funds"
)

var _ = Describe("Associate", func() {
	var (
		series  []*funds.SeriesRecord
		classes map[string][]*funds.ClassRecord
	)

	BeforeEach(func() {
		series = []*funds.SeriesRecord{
			{SeriesID: "S000001", Name: "Growth Fund", CIK: "0000315700"},
			{SeriesID: "S000002", Name: "Income Fund", CIK: "0000315700"},
		}
		classes = map[string][]*funds.ClassRecord{
			"S000001": {
				{ClassID: "C000011", Ticker: "GROAX", SeriesID: "S000001"},
			},
			"S000002": {
				{ClassID: "C000021", Ticker: "INCAX", SeriesID: "S000002"},
			},
		}
	})

	It("uses an explicit series id with highest confidence", func() {
		class := &funds.ClassRecord{ClassID: "C000031", Name: "Growth Fund Class K", SeriesID: "S000002"}

		assoc := funds.Associate(class, series, classes)
		Expect(assoc.Unresolved()).To(BeFalse())
		Expect(assoc.SeriesID).To(Equal("S000002"))
		Expect(assoc.Confidence).To(Equal(funds.ConfidenceExplicit))
	})

	It("matches the series name extracted from the class name", func() {
		class := &funds.ClassRecord{ClassID: "C000031", Name: "Growth Fund Class K"}

		assoc := funds.Associate(class, series, classes)
		Expect(assoc.SeriesID).To(Equal("S000001"))
		Expect(assoc.Confidence).To(Equal(funds.ConfidenceNamePattern))
	})

	It("matches series names case-insensitively", func() {
		class := &funds.ClassRecord{ClassID: "C000031", Name: "GROWTH FUND Class Institutional"}

		assoc := funds.Associate(class, series, classes)
		Expect(assoc.SeriesID).To(Equal("S000001"))
	})

	It("prefers the name pattern over a ticker-prefix match", func() {
		// name points at Growth Fund while the ticker prefix points at
		// Income Fund; the name heuristic runs first and wins
		class := &funds.ClassRecord{ClassID: "C000031", Name: "Growth Fund Class K", Ticker: "INCBX"}

		assoc := funds.Associate(class, series, classes)
		Expect(assoc.SeriesID).To(Equal("S000001"))
		Expect(assoc.Confidence).To(Equal(funds.ConfidenceNamePattern))
	})

	It("falls back to a unique ticker-prefix match", func() {
		class := &funds.ClassRecord{ClassID: "C000031", Name: "Aggressive Portfolio", Ticker: "GROKX"}

		assoc := funds.Associate(class, series, classes)
		Expect(assoc.SeriesID).To(Equal("S000001"))
		Expect(assoc.Confidence).To(Equal(funds.ConfidenceTickerPrefix))
	})

	It("reports unresolved when two series share the ticker prefix", func() {
		classes["S000002"] = append(classes["S000002"],
			&funds.ClassRecord{ClassID: "C000022", Ticker: "GROBX", SeriesID: "S000002"})
		class := &funds.ClassRecord{ClassID: "C000031", Name: "Aggressive Portfolio", Ticker: "GROKX"}

		assoc := funds.Associate(class, series, classes)
		Expect(assoc.Unresolved()).To(BeTrue())
	})

	It("reports unresolved when the name matches multiple series", func() {
		series = append(series, &funds.SeriesRecord{SeriesID: "S000003", Name: "Growth Fund"})
		class := &funds.ClassRecord{ClassID: "C000031", Name: "Growth Fund Class K"}

		assoc := funds.Associate(class, series, classes)
		Expect(assoc.Unresolved()).To(BeTrue())
	})

	It("reports unresolved when no heuristic applies", func() {
		class := &funds.ClassRecord{ClassID: "C000031", Name: "Mystery Portfolio", Ticker: "ZZ"}

		assoc := funds.Associate(class, series, classes)
		Expect(assoc.Unresolved()).To(BeTrue())
		Expect(assoc.Confidence).To(Equal(funds.ConfidenceNone))
	})

	It("accepts a short multi-word class designation", func() {
		class := &funds.ClassRecord{ClassID: "C000031", Name: "Growth Fund Class R 6"}

		assoc := funds.Associate(class, series, classes)
		Expect(assoc.SeriesID).To(Equal("S000001"))
		Expect(assoc.Confidence).To(Equal(funds.ConfidenceNamePattern))
	})

	It("rejects a long multi-word remainder after the word class", func() {
		// "class" here is part of the fund name, not a share designation
		series = append(series,
			&funds.SeriesRecord{SeriesID: "S000004", Name: "Multi", CIK: "0000315700"})
		class := &funds.ClassRecord{ClassID: "C000031", Name: "Multi Class Diversified Alternatives Portfolio"}

		assoc := funds.Associate(class, series, classes)
		Expect(assoc.Unresolved()).To(BeTrue())
	})

	It("ignores short or non-alphabetic tickers in the prefix heuristic", func() {
		class := &funds.ClassRecord{ClassID: "C000031", Name: "Aggressive Portfolio", Ticker: "G1OKX"}

		assoc := funds.Associate(class, series, classes)
		Expect(assoc.Unresolved()).To(BeTrue())
	})
})
