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
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Resolver classifies identifiers and materializes fund entities from a
// Source. Entities are registered in a shared Registry so hierarchy
// navigation works across resolution calls; resolution itself is read-only
// against the source and safe for concurrent use.
type Resolver struct {
	source   Source
	registry *Registry
}

func NewResolver(source Source) *Resolver {
	return &Resolver{
		source:   source,
		registry: NewRegistry(),
	}
}

// Registry exposes the entity index backing hierarchy navigation
func (resolver *Resolver) Registry() *Registry {
	return resolver.registry
}

// Resolve classifies the identifier and returns the matching entity: a
// *FundCompany for CIKs, a *FundSeries for series ids, and a *FundClass for
// class ids and tickers. Class resolution completes the owning-series link
// through the association engine when the source omits it; an unresolved
// link is a valid outcome, not an error.
func (resolver *Resolver) Resolve(ctx context.Context, identifier string) (Entity, error) {
	kind := Classify(identifier)
	id := CanonicalID(kind, identifier)

	log.Debug().Str("Identifier", identifier).Str("Kind", string(kind)).Msg("resolve identifier")

	switch kind {
	case KindCIK:
		return resolver.resolveCompany(ctx, id)
	case KindSeriesID:
		return resolver.resolveSeries(ctx, id)
	case KindClassID:
		record, err := resolver.source.Class(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("resolve class %s: %w", identifier, err)
		}
		return resolver.resolveClass(ctx, record)
	case KindTicker:
		record, err := resolver.source.ClassByTicker(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("resolve ticker %s: %w", identifier, err)
		}
		return resolver.resolveClass(ctx, record)
	}

	return nil, fmt.Errorf("resolve %s: %w", identifier, ErrNotFound)
}

func (resolver *Resolver) resolveCompany(ctx context.Context, cik string) (*FundCompany, error) {
	record, err := resolver.source.Company(ctx, cik)
	if err != nil {
		return nil, fmt.Errorf("resolve company %s: %w", cik, err)
	}

	return resolver.registry.mergeCompany(record), nil
}

func (resolver *Resolver) resolveSeries(ctx context.Context, seriesID string) (*FundSeries, error) {
	record, err := resolver.source.Series(ctx, seriesID)
	if err != nil {
		return nil, fmt.Errorf("resolve series %s: %w", seriesID, err)
	}

	series := resolver.registry.mergeSeries(record)

	// fill in the registrant name so series.Company() is navigable
	if record.CIK != "" {
		if company, ok := resolver.registry.Company(record.CIK); !ok || company.Name == "" {
			companyRecord, err := resolver.source.Company(ctx, record.CIK)
			switch {
			case errors.Is(err, ErrNotFound):
				log.Debug().Str("CIK", record.CIK).Str("SeriesID", seriesID).
					Msg("series references unknown registrant")
			case err != nil:
				return nil, fmt.Errorf("resolve series %s company: %w", seriesID, err)
			default:
				resolver.registry.mergeCompany(companyRecord)
			}
		}
	}

	return series, nil
}

func (resolver *Resolver) resolveClass(ctx context.Context, record *ClassRecord) (*FundClass, error) {
	assoc, err := resolver.associate(ctx, record)
	if err != nil {
		return nil, err
	}

	if !assoc.Unresolved() {
		// resolve the owning series eagerly so class.Series() navigation
		// works; an explicit id naming an unknown series is a data
		// integrity failure, not a reason to fall back to weaker heuristics
		if _, err := resolver.resolveSeries(ctx, assoc.SeriesID); err != nil {
			if assoc.Confidence == ConfidenceExplicit && errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("class %s references unknown series %s: %w",
					record.ClassID, assoc.SeriesID, ErrNotFound)
			}
			return nil, err
		}
	} else {
		log.Debug().Str("ClassID", record.ClassID).Str("Ticker", record.Ticker).
			Msg("owning series could not be determined")
	}

	return resolver.registry.mergeClass(record, assoc.SeriesID, assoc.Confidence), nil
}

// associate runs the hierarchy association engine for a class record whose
// owning series is not explicit, gathering the candidate series population
// from the source
func (resolver *Resolver) associate(ctx context.Context, record *ClassRecord) (Association, error) {
	if record.SeriesID != "" {
		return Association{SeriesID: record.SeriesID, Confidence: ConfidenceExplicit}, nil
	}

	if record.CIK == "" {
		return Association{}, nil
	}

	population, err := resolver.source.CompanySeries(ctx, record.CIK)
	switch {
	case errors.Is(err, ErrNotFound):
		return Association{}, nil
	case err != nil:
		return Association{}, fmt.Errorf("associate class %s: %w", record.ClassID, err)
	}

	classesBySeries := make(map[string][]*ClassRecord, len(population))
	for _, series := range population {
		classes, err := resolver.source.SeriesClasses(ctx, series.SeriesID)
		switch {
		case errors.Is(err, ErrNotFound):
			continue
		case err != nil:
			return Association{}, fmt.Errorf("associate class %s: %w", record.ClassID, err)
		}

		classesBySeries[series.SeriesID] = classes
	}

	assoc := Associate(record, population, classesBySeries)
	if !assoc.Unresolved() {
		log.Debug().Str("ClassID", record.ClassID).Str("SeriesID", assoc.SeriesID).
			Stringer("Confidence", assoc.Confidence).Msg("associated class with series")
	}

	return assoc, nil
}
