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

var _ = Describe("Classify", func() {
	DescribeTable("structural identifier rules",
		func(identifier string, expected funds.Kind) {
			Expect(funds.Classify(identifier)).To(Equal(expected))
		},

		Entry("series id", "S000007", funds.KindSeriesID),
		Entry("full-length series id", "S000001234", funds.KindSeriesID),
		Entry("lower-case series id", "s000007", funds.KindSeriesID),
		Entry("class id", "C000011", funds.KindClassID),
		Entry("lower-case class id", "c000012345", funds.KindClassID),
		Entry("short cik", "320193", funds.KindCIK),
		Entry("zero-padded cik", "0000315700", funds.KindCIK),
		Entry("ten-digit cik", "1234567890", funds.KindCIK),
		Entry("ticker", "FCNTX", funds.KindTicker),
		Entry("short ticker", "VOO", funds.KindTicker),
		Entry("series prefix without digits", "SERIES", funds.KindTicker),
		Entry("class prefix without digits", "CASH", funds.KindTicker),
		Entry("numeric string longer than a cik", "12345678901", funds.KindTicker),
		Entry("series id longer than the known format", "S12345678901", funds.KindTicker),
		Entry("empty string", "", funds.KindTicker),
		Entry("identifier with surrounding space", "  S000007  ", funds.KindSeriesID),
	)

	It("prefers the series pattern over the cik rule", func() {
		// an S-prefixed id can never be all digits, but the priority
		// ordering must hold for inputs matching multiple rules
		Expect(funds.Classify("S000007")).To(Equal(funds.KindSeriesID))
		Expect(funds.Classify("C000011")).To(Equal(funds.KindClassID))
	})
})

var _ = Describe("CanonicalID", func() {
	It("zero-pads CIKs to ten digits", func() {
		Expect(funds.CanonicalID(funds.KindCIK, "315700")).To(Equal("0000315700"))
		Expect(funds.CanonicalID(funds.KindCIK, "1234567890")).To(Equal("1234567890"))
	})

	It("upper-cases series and class ids", func() {
		Expect(funds.CanonicalID(funds.KindSeriesID, "s000007")).To(Equal("S000007"))
		Expect(funds.CanonicalID(funds.KindClassID, "c000011")).To(Equal("C000011"))
	})

	It("upper-cases tickers", func() {
		Expect(funds.CanonicalID(funds.KindTicker, "fcntx")).To(Equal("FCNTX"))
	})
})
