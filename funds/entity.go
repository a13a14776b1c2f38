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
	"sync"

	"github.com/alphadose/haxmap"
)

// Confidence records how a class↔series association was established.
// Higher values are more trustworthy; an association is never downgraded.
type Confidence int

const (
	ConfidenceNone Confidence = iota
	ConfidenceTickerPrefix
	ConfidenceNamePattern
	ConfidenceExplicit
)

func (confidence Confidence) String() string {
	switch confidence {
	case ConfidenceExplicit:
		return "explicit"
	case ConfidenceNamePattern:
		return "name-pattern"
	case ConfidenceTickerPrefix:
		return "ticker-prefix"
	}

	return "unresolved"
}

// Entity is the closed set of resolvable fund entities. Only FundCompany,
// FundSeries, and FundClass implement it; callers switch exhaustively on
// the concrete type.
type Entity interface {
	ID() string
	DisplayName() string

	isFundEntity()
}

// FundCompany is a fund registrant identified by CIK. It does not own its
// series data; it only knows the series ids discovered so far and resolves
// them through the registry on demand.
type FundCompany struct {
	CIK  string
	Name string

	seriesIDs []string
	registry  *Registry
}

func (company *FundCompany) ID() string          { return company.CIK }
func (company *FundCompany) DisplayName() string { return company.Name }
func (company *FundCompany) isFundEntity()       {}

// SeriesIDs returns the series identifiers discovered under this registrant
func (company *FundCompany) SeriesIDs() []string {
	ids := make([]string, len(company.seriesIDs))
	copy(ids, company.seriesIDs)
	return ids
}

// Series returns the series of this registrant that have been resolved so
// far. The hierarchy is populated lazily; series that are known by id but
// never resolved are omitted.
func (company *FundCompany) Series() []*FundSeries {
	ids := company.SeriesIDs()
	series := make([]*FundSeries, 0, len(ids))
	for _, id := range ids {
		if s, ok := company.registry.series.Get(id); ok {
			series = append(series, s)
		}
	}

	return series
}

// FundSeries is a distinct fund product identified by a series id. The
// company back-reference is held as a CIK, not a pointer; navigation goes
// through the registry so the object graph stays cycle-free.
type FundSeries struct {
	SeriesID string
	Name     string
	CIK      string

	classIDs []string
	registry *Registry
}

func (series *FundSeries) ID() string          { return series.SeriesID }
func (series *FundSeries) DisplayName() string { return series.Name }
func (series *FundSeries) isFundEntity()       {}

// Company returns the owning registrant, or nil if it has not been resolved
func (series *FundSeries) Company() *FundCompany {
	company, ok := series.registry.companies.Get(series.CIK)
	if !ok {
		return nil
	}

	return company
}

// ClassIDs returns the class identifiers discovered under this series
func (series *FundSeries) ClassIDs() []string {
	ids := make([]string, len(series.classIDs))
	copy(ids, series.classIDs)
	return ids
}

// Classes returns the share classes of this series that have been resolved
// so far
func (series *FundSeries) Classes() []*FundClass {
	ids := series.ClassIDs()
	classes := make([]*FundClass, 0, len(ids))
	for _, id := range ids {
		if class, ok := series.registry.classes.Get(id); ok {
			classes = append(classes, class)
		}
	}

	return classes
}

// FundClass is a share class of a series, addressable by class id or by
// ticker. The owning series may be unknown; that is a valid state, not an
// error -- Series returns nil and Confidence reports ConfidenceNone.
type FundClass struct {
	ClassID string
	Name    string
	Ticker  string
	CIK     string

	seriesID   string
	confidence Confidence
	registry   *Registry
}

func (class *FundClass) ID() string          { return class.ClassID }
func (class *FundClass) DisplayName() string { return class.Name }
func (class *FundClass) isFundEntity()       {}

// SeriesID returns the owning series identifier, or empty when unresolved
func (class *FundClass) SeriesID() string {
	return class.seriesID
}

// Confidence reports how the series association was established
func (class *FundClass) Confidence() Confidence {
	return class.confidence
}

// Series returns the owning series, or nil when the association is
// unresolved or the series has not been resolved yet
func (class *FundClass) Series() *FundSeries {
	id := class.SeriesID()
	if id == "" {
		return nil
	}

	series, ok := class.registry.series.Get(id)
	if !ok {
		return nil
	}

	return series
}

// Registry indexes resolved entities by identifier and ticker. Entities
// reference each other through the registry instead of holding owning
// pointers, which keeps the Company → Series → Class graph free of cycles.
//
// Published entities are immutable: an incremental hierarchy merge never
// writes to an entity already in the maps -- it builds an updated copy and
// replaces the map entry. Readers therefore need no coordination; the mutex
// only serializes the read-modify-write of the merges themselves.
type Registry struct {
	companies *haxmap.Map[string, *FundCompany]
	series    *haxmap.Map[string, *FundSeries]
	classes   *haxmap.Map[string, *FundClass]
	tickers   *haxmap.Map[string, string]

	mu sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		companies: haxmap.New[string, *FundCompany](),
		series:    haxmap.New[string, *FundSeries](),
		classes:   haxmap.New[string, *FundClass](),
		tickers:   haxmap.New[string, string](),
	}
}

// Company returns the registered company for a CIK
func (registry *Registry) Company(cik string) (*FundCompany, bool) {
	return registry.companies.Get(cik)
}

// Series returns the registered series for a series id
func (registry *Registry) Series(seriesID string) (*FundSeries, bool) {
	return registry.series.Get(seriesID)
}

// Class returns the registered class for a class id
func (registry *Registry) Class(classID string) (*FundClass, bool) {
	return registry.classes.Get(classID)
}

// ClassByTicker returns the registered class for a ticker
func (registry *Registry) ClassByTicker(ticker string) (*FundClass, bool) {
	classID, ok := registry.tickers.Get(ticker)
	if !ok {
		return nil, false
	}

	return registry.classes.Get(classID)
}

// mergeCompany registers a company record, merging series ids and filling
// the name if it was previously unknown. The prior entry is left untouched;
// a fresh copy carrying the merged state replaces it in the map.
func (registry *Registry) mergeCompany(record *CompanyRecord) *FundCompany {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	company := &FundCompany{
		CIK:      record.CIK,
		Name:     record.Name,
		registry: registry,
	}

	if existing, ok := registry.companies.Get(record.CIK); ok {
		if existing.Name != "" {
			company.Name = existing.Name
		}
		company.seriesIDs = append(company.seriesIDs, existing.seriesIDs...)
	}

	for _, seriesID := range record.SeriesIDs {
		company.seriesIDs = appendUnique(company.seriesIDs, seriesID)
	}

	registry.companies.Set(record.CIK, company)
	return company
}

// mergeSeries registers a series record and links it under its company
func (registry *Registry) mergeSeries(record *SeriesRecord) *FundSeries {
	registry.mu.Lock()

	series := &FundSeries{
		SeriesID: record.SeriesID,
		Name:     record.Name,
		CIK:      record.CIK,
		registry: registry,
	}

	if existing, ok := registry.series.Get(record.SeriesID); ok {
		if existing.Name != "" {
			series.Name = existing.Name
		}
		if existing.CIK != "" {
			series.CIK = existing.CIK
		}
		series.classIDs = append(series.classIDs, existing.classIDs...)
	}

	for _, classID := range record.ClassIDs {
		series.classIDs = appendUnique(series.classIDs, classID)
	}

	registry.series.Set(record.SeriesID, series)
	registry.mu.Unlock()

	if series.CIK != "" {
		registry.mergeCompany(&CompanyRecord{CIK: series.CIK, SeriesIDs: []string{series.SeriesID}})
	}

	return series
}

// mergeClass registers a class record. seriesID and confidence describe the
// association determined during resolution; an existing association is only
// replaced by one of strictly higher confidence.
func (registry *Registry) mergeClass(record *ClassRecord, seriesID string, confidence Confidence) *FundClass {
	registry.mu.Lock()

	class := &FundClass{
		ClassID:  record.ClassID,
		Name:     record.Name,
		Ticker:   record.Ticker,
		CIK:      record.CIK,
		registry: registry,
	}

	if existing, ok := registry.classes.Get(record.ClassID); ok {
		if existing.Name != "" {
			class.Name = existing.Name
		}
		if existing.Ticker != "" {
			class.Ticker = existing.Ticker
		}
		if existing.CIK != "" {
			class.CIK = existing.CIK
		}
		class.seriesID = existing.seriesID
		class.confidence = existing.confidence
	}

	if seriesID != "" && confidence > class.confidence {
		class.seriesID = seriesID
		class.confidence = confidence
	}

	linkedSeries := class.seriesID
	registry.classes.Set(record.ClassID, class)
	registry.mu.Unlock()

	if class.Ticker != "" {
		registry.tickers.Set(class.Ticker, class.ClassID)
	}

	if linkedSeries != "" {
		registry.mergeSeries(&SeriesRecord{
			SeriesID: linkedSeries,
			CIK:      record.CIK,
			ClassIDs: []string{record.ClassID},
		})
	}

	return class
}

func appendUnique(ids []string, id string) []string {
	if id == "" {
		return ids
	}

	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}

	return append(ids, id)
}
