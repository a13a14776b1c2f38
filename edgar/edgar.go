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

// Package edgar implements the funds.Source interface against SEC EDGAR's
// public JSON endpoints. The mutual-fund ticker dictionary is fetched once
// and indexed in memory; entity names are looked up per request. All
// requests honor SEC's fair-access policy of at most 10 requests/second
// and carry the declared user agent from the edgar.useragent setting.
package edgar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/penny-vault/pvfunds/funds"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"
)

const (
	FUND_TICKER_URL  string = "https://www.sec.gov/files/company_tickers_mf.json"
	SUBMISSIONS_URL  string = "https://data.sec.gov/submissions/CIK%s.json"
	COMPANY_INFO_URL string = "https://www.sec.gov/cgi-bin/browse-edgar"
)

var (
	ErrStatus = errors.New("status code is invalid")
)

// Client queries SEC EDGAR and implements funds.Source
type Client struct {
	http          *resty.Client
	limiter       *rate.Limiter
	fundTickerURL string

	dictMu sync.Mutex
	dict   *dictionary
}

func rateLimit() *rate.Limiter {
	// SEC fair access: 10 requests per second
	return rate.NewLimiter(rate.Every(time.Second/10), 10)
}

func New() *Client {
	userAgent := viper.GetString("edgar.useragent")
	if userAgent == "" {
		log.Warn().Msg("edgar.useragent not set, SEC may reject anonymous requests")
	}

	client := resty.New().
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept-Encoding", "gzip, deflate")

	return &Client{
		http:          client,
		limiter:       rateLimit(),
		fundTickerURL: FUND_TICKER_URL,
	}
}

// FundTickers returns the complete mutual-fund ticker dictionary
func (client *Client) FundTickers(ctx context.Context) ([]FundTicker, error) {
	dict, err := client.dictionary(ctx)
	if err != nil {
		return nil, err
	}

	return dict.rows, nil
}

// Company returns the registrant record for a CIK. The display name comes
// from the submissions endpoint; series ids come from the fund dictionary.
func (client *Client) Company(ctx context.Context, cik string) (*funds.CompanyRecord, error) {
	cik = funds.PadCIK(cik)

	dict, err := client.dictionary(ctx)
	if err != nil {
		return nil, err
	}

	seriesIDs := dict.seriesIDsForCIK(cik)

	name, err := client.companyName(ctx, cik)
	switch {
	case errors.Is(err, funds.ErrNotFound):
		if len(seriesIDs) == 0 {
			return nil, fmt.Errorf("cik %s: %w", cik, funds.ErrNotFound)
		}
		log.Warn().Str("CIK", cik).Msg("registrant has fund series but no submissions record")
	case err != nil:
		return nil, err
	}

	return &funds.CompanyRecord{
		CIK:       cik,
		Name:      name,
		SeriesIDs: seriesIDs,
	}, nil
}

// Series returns the series record for a series id
func (client *Client) Series(ctx context.Context, seriesID string) (*funds.SeriesRecord, error) {
	dict, err := client.dictionary(ctx)
	if err != nil {
		return nil, err
	}

	rows := dict.seriesRows(seriesID)
	if len(rows) == 0 {
		return nil, fmt.Errorf("series %s: %w", seriesID, funds.ErrNotFound)
	}

	record := &funds.SeriesRecord{
		SeriesID: seriesID,
		CIK:      rows[0].CIK,
	}
	for _, row := range rows {
		record.ClassIDs = append(record.ClassIDs, row.ClassID)
	}

	name, err := client.entityName(ctx, seriesID)
	switch {
	case errors.Is(err, funds.ErrNotFound):
		log.Debug().Str("SeriesID", seriesID).Msg("no company-info record for series")
	case err != nil:
		return nil, err
	default:
		record.Name = name
	}

	return record, nil
}

// Class returns the class record for a class id
func (client *Client) Class(ctx context.Context, classID string) (*funds.ClassRecord, error) {
	dict, err := client.dictionary(ctx)
	if err != nil {
		return nil, err
	}

	row, ok := dict.classRow(classID)
	if !ok {
		return nil, fmt.Errorf("class %s: %w", classID, funds.ErrNotFound)
	}

	return client.classRecord(ctx, row)
}

// ClassByTicker returns the class record a ticker resolves to. A ticker
// matching multiple classes violates EDGAR's uniqueness invariant and is
// surfaced as *funds.AmbiguousTickerError.
func (client *Client) ClassByTicker(ctx context.Context, ticker string) (*funds.ClassRecord, error) {
	dict, err := client.dictionary(ctx)
	if err != nil {
		return nil, err
	}

	rows := dict.tickerRows(ticker)
	switch {
	case len(rows) == 0:
		return nil, fmt.Errorf("ticker %s: %w", ticker, funds.ErrNotFound)
	case len(rows) > 1:
		classIDs := make([]string, 0, len(rows))
		for _, row := range rows {
			classIDs = append(classIDs, row.ClassID)
		}
		return nil, &funds.AmbiguousTickerError{Ticker: ticker, ClassIDs: classIDs}
	}

	return client.classRecord(ctx, rows[0])
}

// CompanySeries enumerates the series of a registrant with their names;
// it backs the hierarchy association engine's candidate population
func (client *Client) CompanySeries(ctx context.Context, cik string) ([]*funds.SeriesRecord, error) {
	dict, err := client.dictionary(ctx)
	if err != nil {
		return nil, err
	}

	seriesIDs := dict.seriesIDsForCIK(funds.PadCIK(cik))
	if len(seriesIDs) == 0 {
		return nil, fmt.Errorf("cik %s series: %w", cik, funds.ErrNotFound)
	}

	records := make([]*funds.SeriesRecord, 0, len(seriesIDs))
	for _, seriesID := range seriesIDs {
		record, err := client.Series(ctx, seriesID)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// SeriesClasses enumerates the classes of a series. Only identifiers and
// tickers are populated; names are resolved lazily when a class itself is
// resolved.
func (client *Client) SeriesClasses(ctx context.Context, seriesID string) ([]*funds.ClassRecord, error) {
	dict, err := client.dictionary(ctx)
	if err != nil {
		return nil, err
	}

	rows := dict.seriesRows(seriesID)
	if len(rows) == 0 {
		return nil, fmt.Errorf("series %s classes: %w", seriesID, funds.ErrNotFound)
	}

	records := make([]*funds.ClassRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, &funds.ClassRecord{
			ClassID:  row.ClassID,
			Ticker:   row.Ticker,
			CIK:      row.CIK,
			SeriesID: row.SeriesID,
		})
	}

	return records, nil
}

// Private interface

func (client *Client) classRecord(ctx context.Context, row FundTicker) (*funds.ClassRecord, error) {
	record := &funds.ClassRecord{
		ClassID:  row.ClassID,
		Ticker:   row.Ticker,
		CIK:      row.CIK,
		SeriesID: row.SeriesID,
	}

	name, err := client.entityName(ctx, row.ClassID)
	switch {
	case errors.Is(err, funds.ErrNotFound):
		log.Debug().Str("ClassID", row.ClassID).Msg("no company-info record for class")
	case err != nil:
		return nil, err
	default:
		record.Name = name
	}

	return record, nil
}

// dictionary returns the fund ticker dictionary, fetching it on first use.
// Only a successful fetch is cached -- a transient failure is returned to
// the caller and the next call retries the download.
func (client *Client) dictionary(ctx context.Context) (*dictionary, error) {
	client.dictMu.Lock()
	defer client.dictMu.Unlock()

	if client.dict != nil {
		return client.dict, nil
	}

	body, err := client.get(ctx, client.fundTickerURL, nil)
	if err != nil {
		return nil, err
	}

	rows, err := parseFundTickers(body)
	if err != nil {
		return nil, err
	}

	log.Debug().Int("NumRows", len(rows)).Msg("loaded EDGAR fund ticker dictionary")
	client.dict = newDictionary(rows)
	return client.dict, nil
}

func (client *Client) companyName(ctx context.Context, cik string) (string, error) {
	body, err := client.get(ctx, fmt.Sprintf(SUBMISSIONS_URL, cik), nil)
	if err != nil {
		return "", err
	}

	payload, err := parseSubmissions(body)
	if err != nil {
		return "", err
	}

	return payload.Name, nil
}

// entityName looks up the conformed name of a series or class through the
// browse-edgar company-info feed
func (client *Client) entityName(ctx context.Context, identifier string) (string, error) {
	body, err := client.get(ctx, COMPANY_INFO_URL, map[string]string{
		"action": "getcompany",
		"CIK":    identifier,
		"count":  "1",
		"output": "atom",
	})
	if err != nil {
		return "", err
	}

	name, err := parseCompanyInfo(body)
	if err != nil {
		return "", err
	}

	if name == "" {
		return "", fmt.Errorf("%s: %w", identifier, funds.ErrNotFound)
	}

	return name, nil
}

// get performs a rate-limited request and maps HTTP status to the error
// taxonomy: 404 is not-found, any other failure status is a retryable
// ErrStatus
func (client *Client) get(ctx context.Context, url string, queryParams map[string]string) ([]byte, error) {
	if err := client.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req := client.http.R().SetContext(ctx)
	if queryParams != nil {
		req = req.SetQueryParams(queryParams)
	}

	resp, err := req.Get(url)
	if err != nil {
		log.Error().Err(err).Str("URL", url).Msg("edgar request errored out")
		return nil, err
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", url, funds.ErrNotFound)
	case resp.StatusCode() >= 400:
		log.Error().Int("StatusCode", resp.StatusCode()).Str("URL", url).
			Msg("edgar request returned invalid status code")
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	return resp.Body(), nil
}
