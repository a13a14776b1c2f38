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
package edgar

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fundTickerJSON mirrors the shape of company_tickers_mf.json: a fields
// header plus rows of [cik, seriesId, classId, symbol]
const fundTickerJSON = `{
  "fields": ["cik", "seriesId", "classId", "symbol"],
  "data": [
    [315700, "S000007", "C000071", "EXGAX"],
    [315700, "S000007", "C000072", "EXGKX"],
    [315700, "S000008", "C000081", "EXVAX"],
    [315700, "", "C000100", "FCNTX"],
    [24238, "S000555", "C000555", "exgax"],
    [24238, "S000555", "C000556", ""],
    [99, "S000666", "", "BADRX"]
  ]
}`

var _ = Describe("parseFundTickers", func() {
	It("decodes the column-oriented dictionary payload", func() {
		rows, err := parseFundTickers([]byte(fundTickerJSON))
		Expect(err).ToNot(HaveOccurred())
		// the row with an empty class id is dropped
		Expect(rows).To(HaveLen(6))

		Expect(rows[0].CIK).To(Equal("0000315700"))
		Expect(rows[0].SeriesID).To(Equal("S000007"))
		Expect(rows[0].ClassID).To(Equal("C000071"))
		Expect(rows[0].Ticker).To(Equal("EXGAX"))
	})

	It("zero-pads numeric CIKs and upper-cases tickers", func() {
		rows, err := parseFundTickers([]byte(fundTickerJSON))
		Expect(err).ToNot(HaveOccurred())

		Expect(rows[4].CIK).To(Equal("0000024238"))
		Expect(rows[4].Ticker).To(Equal("EXGAX"))
	})

	It("fails on malformed payloads", func() {
		_, err := parseFundTickers([]byte(`{"fields": 7}`))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("dictionary", func() {
	var dict *dictionary

	BeforeEach(func() {
		rows, err := parseFundTickers([]byte(fundTickerJSON))
		Expect(err).ToNot(HaveOccurred())
		dict = newDictionary(rows)
	})

	It("looks up classes by id", func() {
		row, ok := dict.classRow("C000072")
		Expect(ok).To(BeTrue())
		Expect(row.Ticker).To(Equal("EXGKX"))

		_, ok = dict.classRow("C000999")
		Expect(ok).To(BeFalse())
	})

	It("collects every class claiming a ticker", func() {
		// EXGAX is (incorrectly) claimed by two classes in the fixture;
		// both rows must surface so the caller can flag the ambiguity
		rows := dict.tickerRows("EXGAX")
		Expect(rows).To(HaveLen(2))

		Expect(dict.tickerRows("NOPEX")).To(BeEmpty())
	})

	It("groups classes by series", func() {
		rows := dict.seriesRows("S000007")
		Expect(rows).To(HaveLen(2))
		for _, row := range rows {
			Expect(row.SeriesID).To(Equal("S000007"))
		}
	})

	It("returns distinct series ids per registrant in dictionary order", func() {
		Expect(dict.seriesIDsForCIK("0000315700")).To(Equal([]string{"S000007", "S000008"}))
		Expect(dict.seriesIDsForCIK("0000024238")).To(Equal([]string{"S000555"}))
		Expect(dict.seriesIDsForCIK("0000000042")).To(BeEmpty())
	})
})

var _ = Describe("parseSubmissions", func() {
	It("reads the registrant name", func() {
		payload, err := parseSubmissions([]byte(`{"cik": "0000315700", "name": "Example Capital Management", "tickers": []}`))
		Expect(err).ToNot(HaveOccurred())
		Expect(payload.Name).To(Equal("Example Capital Management"))
	})
})

var _ = Describe("parseCompanyInfo", func() {
	It("reads the conformed name from a browse-edgar atom feed", func() {
		feed := `<?xml version="1.0" encoding="ISO-8859-1" ?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <company-info>
    <cik>0000315700</cik>
    <conformed-name>Example Growth Fund</conformed-name>
  </company-info>
  <title>Example Growth Fund (Filer)</title>
</feed>`

		name, err := parseCompanyInfo([]byte(feed))
		Expect(err).ToNot(HaveOccurred())
		Expect(name).To(Equal("Example Growth Fund"))
	})

	It("returns an empty name when the feed has no company-info block", func() {
		name, err := parseCompanyInfo([]byte(`<feed xmlns="http://www.w3.org/2005/Atom"></feed>`))
		Expect(err).ToNot(HaveOccurred())
		Expect(name).To(BeEmpty())
	})
})
