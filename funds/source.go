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

import "context"

// CompanyRecord is the raw registrant attributes returned by a data source
type CompanyRecord struct {
	CIK       string
	Name      string
	SeriesIDs []string
}

// SeriesRecord is the raw fund series attributes returned by a data source
type SeriesRecord struct {
	SeriesID string
	Name     string
	CIK      string
	ClassIDs []string
}

// ClassRecord is the raw share class attributes returned by a data source.
// SeriesID is empty when the source does not know the owning series; the
// association engine fills the gap during resolution.
type ClassRecord struct {
	ClassID  string
	Name     string
	Ticker   string
	CIK      string
	SeriesID string
}

// Source is the registrant data collaborator the resolver queries. All
// lookups are point lookups by a single identifier kind; implementations
// must return ErrNotFound (wrapped is fine) when an identifier does not
// match any entity, keeping it distinct from transient fetch failures.
type Source interface {
	Company(ctx context.Context, cik string) (*CompanyRecord, error)
	Series(ctx context.Context, seriesID string) (*SeriesRecord, error)
	Class(ctx context.Context, classID string) (*ClassRecord, error)

	// ClassByTicker returns *AmbiguousTickerError if more than one class
	// claims the ticker
	ClassByTicker(ctx context.Context, ticker string) (*ClassRecord, error)

	// CompanySeries enumerates every series known under a registrant;
	// the association engine uses it as the candidate population
	CompanySeries(ctx context.Context, cik string) ([]*SeriesRecord, error)

	// SeriesClasses enumerates the classes of a series; only tickers and
	// ids are required to be populated
	SeriesClasses(ctx context.Context, seriesID string) ([]*ClassRecord, error)
}
