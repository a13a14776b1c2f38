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
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/penny-vault/pvfunds/funds"
)

// FundTicker is one row of EDGAR's mutual-fund ticker dictionary
// (company_tickers_mf.json): the CIK / series / class / ticker tuple
type FundTicker struct {
	CIK      string `json:"cik" csv:"cik"`
	SeriesID string `json:"series_id" csv:"series_id"`
	ClassID  string `json:"class_id" csv:"class_id"`
	Ticker   string `json:"ticker" csv:"ticker"`
}

// dictionary indexes the fund ticker rows for point lookups. It is built
// once and read-only afterwards, so it is safe for concurrent readers.
type dictionary struct {
	rows []FundTicker

	byClass  map[string]int
	byTicker map[string][]int
	bySeries map[string][]int
	byCIK    map[string][]int
}

type fundTickerPayload struct {
	Fields []string `json:"fields"`
	Data   [][]any  `json:"data"`
}

// parseFundTickers decodes company_tickers_mf.json. The payload is a
// column-oriented table: a fields header plus rows of
// [cik, seriesId, classId, symbol].
func parseFundTickers(body []byte) ([]FundTicker, error) {
	var payload fundTickerPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse fund ticker dictionary: %w", err)
	}

	rows := make([]FundTicker, 0, len(payload.Data))
	for _, raw := range payload.Data {
		if len(raw) < 4 {
			continue
		}

		row := FundTicker{
			CIK:      funds.PadCIK(cellString(raw[0])),
			SeriesID: strings.ToUpper(strings.TrimSpace(cellString(raw[1]))),
			ClassID:  strings.ToUpper(strings.TrimSpace(cellString(raw[2]))),
			Ticker:   strings.ToUpper(strings.TrimSpace(cellString(raw[3]))),
		}

		if row.ClassID == "" {
			continue
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// cellString renders a dictionary cell as a string; CIKs arrive as JSON
// numbers while the remaining columns are strings
func cellString(cell any) string {
	switch v := cell.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	}

	return ""
}

func newDictionary(rows []FundTicker) *dictionary {
	dict := &dictionary{
		rows:     rows,
		byClass:  make(map[string]int, len(rows)),
		byTicker: make(map[string][]int),
		bySeries: make(map[string][]int),
		byCIK:    make(map[string][]int),
	}

	for idx, row := range rows {
		dict.byClass[row.ClassID] = idx
		if row.Ticker != "" {
			dict.byTicker[row.Ticker] = append(dict.byTicker[row.Ticker], idx)
		}
		if row.SeriesID != "" {
			dict.bySeries[row.SeriesID] = append(dict.bySeries[row.SeriesID], idx)
		}
		dict.byCIK[row.CIK] = append(dict.byCIK[row.CIK], idx)
	}

	return dict
}

func (dict *dictionary) classRow(classID string) (FundTicker, bool) {
	idx, ok := dict.byClass[classID]
	if !ok {
		return FundTicker{}, false
	}

	return dict.rows[idx], true
}

func (dict *dictionary) tickerRows(ticker string) []FundTicker {
	return dict.collect(dict.byTicker[ticker])
}

func (dict *dictionary) seriesRows(seriesID string) []FundTicker {
	return dict.collect(dict.bySeries[seriesID])
}

func (dict *dictionary) cikRows(cik string) []FundTicker {
	return dict.collect(dict.byCIK[cik])
}

func (dict *dictionary) collect(indexes []int) []FundTicker {
	rows := make([]FundTicker, 0, len(indexes))
	for _, idx := range indexes {
		rows = append(rows, dict.rows[idx])
	}

	return rows
}

// seriesIDsForCIK returns the distinct series ids under a registrant,
// preserving dictionary order
func (dict *dictionary) seriesIDsForCIK(cik string) []string {
	seen := make(map[string]bool)
	ids := make([]string, 0)

	for _, row := range dict.cikRows(cik) {
		if row.SeriesID == "" || seen[row.SeriesID] {
			continue
		}
		seen[row.SeriesID] = true
		ids = append(ids, row.SeriesID)
	}

	return ids
}

// submissionsPayload is the subset of data.sec.gov/submissions we read
type submissionsPayload struct {
	CIK  string `json:"cik"`
	Name string `json:"name"`
}

func parseSubmissions(body []byte) (*submissionsPayload, error) {
	var payload submissionsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse submissions payload: %w", err)
	}

	return &payload, nil
}

// companyInfoFeed is the subset of the browse-edgar atom feed we read;
// querying browse-edgar with a series or class id yields the entity's
// conformed name in the company-info block
type companyInfoFeed struct {
	XMLName     xml.Name `xml:"feed"`
	CompanyInfo struct {
		ConformedName string `xml:"conformed-name"`
		CIK           string `xml:"cik"`
	} `xml:"company-info"`
}

func parseCompanyInfo(body []byte) (string, error) {
	var feed companyInfoFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return "", fmt.Errorf("parse company-info feed: %w", err)
	}

	return strings.TrimSpace(feed.CompanyInfo.ConformedName), nil
}
