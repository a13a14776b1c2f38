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
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pvfunds/funds"
)

var _ = Describe("Resolver", func() {
	var (
		ctx      context.Context
		resolver *funds.Resolver
	)

	BeforeEach(func() {
		ctx = context.Background()
		resolver = funds.NewResolver(newFakeSource())
	})

	Context("when resolving a CIK", func() {
		It("returns a fund company", func() {
			entity, err := resolver.Resolve(ctx, "0000315700")
			Expect(err).ToNot(HaveOccurred())

			company, ok := entity.(*funds.FundCompany)
			Expect(ok).To(BeTrue())
			Expect(company.CIK).To(Equal("0000315700"))
			Expect(company.Name).To(Equal("Example Capital Management"))
			Expect(company.SeriesIDs()).To(ConsistOf("S000007", "S000008", "S000009"))
		})

		It("zero-pads short CIKs before lookup", func() {
			entity, err := resolver.Resolve(ctx, "315700")
			Expect(err).ToNot(HaveOccurred())
			Expect(entity.ID()).To(Equal("0000315700"))
		})

		It("fails with ErrNotFound for unknown registrants", func() {
			_, err := resolver.Resolve(ctx, "0000999999")
			Expect(err).To(MatchError(funds.ErrNotFound))
		})
	})

	Context("when resolving a series id", func() {
		It("returns a fund series with a navigable company", func() {
			entity, err := resolver.Resolve(ctx, "S000007")
			Expect(err).ToNot(HaveOccurred())

			series, ok := entity.(*funds.FundSeries)
			Expect(ok).To(BeTrue())
			Expect(series.Name).To(Equal("Example Growth Fund"))

			company := series.Company()
			Expect(company).ToNot(BeNil())
			Expect(company.CIK).To(Equal("0000315700"))
			Expect(company.Name).To(Equal("Example Capital Management"))
		})

		It("fails with ErrNotFound for unknown series", func() {
			_, err := resolver.Resolve(ctx, "S000999")
			Expect(err).To(MatchError(funds.ErrNotFound))
		})
	})

	Context("when resolving a class id", func() {
		It("returns a share class with an explicit series link", func() {
			entity, err := resolver.Resolve(ctx, "C000072")
			Expect(err).ToNot(HaveOccurred())

			class, ok := entity.(*funds.FundClass)
			Expect(ok).To(BeTrue())
			Expect(class.Ticker).To(Equal("EXGKX"))
			Expect(class.Confidence()).To(Equal(funds.ConfidenceExplicit))

			series := class.Series()
			Expect(series).ToNot(BeNil())
			Expect(series.SeriesID).To(Equal("S000007"))
		})

		It("surfaces a broken explicit series link as ErrNotFound", func() {
			// the explicit id claims highest confidence; a bogus one is a
			// data-integrity failure, not a reason to try weaker heuristics
			_, err := resolver.Resolve(ctx, "C000300")
			Expect(err).To(MatchError(funds.ErrNotFound))
		})

		It("fails with ErrNotFound for unknown class ids", func() {
			_, err := resolver.Resolve(ctx, "C000999")
			Expect(err).To(MatchError(funds.ErrNotFound))
		})
	})

	Context("when resolving a ticker", func() {
		It("infers the owning series from the class naming convention", func() {
			entity, err := resolver.Resolve(ctx, "FCNTX")
			Expect(err).ToNot(HaveOccurred())

			class, ok := entity.(*funds.FundClass)
			Expect(ok).To(BeTrue())
			Expect(class.Ticker).To(Equal("FCNTX"))
			Expect(class.Confidence()).To(Equal(funds.ConfidenceNamePattern))

			series := class.Series()
			Expect(series).ToNot(BeNil())
			Expect(series.Name).To(Equal("Example Contrafund"))
			Expect(series.Company()).ToNot(BeNil())
			Expect(series.Company().Name).To(Equal("Example Capital Management"))
		})

		It("round-trips through series navigation", func() {
			entity, err := resolver.Resolve(ctx, "FCNTX")
			Expect(err).ToNot(HaveOccurred())

			class := entity.(*funds.FundClass)
			tickers := make([]string, 0)
			for _, sibling := range class.Series().Classes() {
				tickers = append(tickers, sibling.Ticker)
			}
			Expect(tickers).To(ContainElement("FCNTX"))

			registered, ok := resolver.Registry().ClassByTicker("FCNTX")
			Expect(ok).To(BeTrue())
			Expect(registered.ClassID).To(Equal(class.ClassID))
		})

		It("infers the owning series from a unique ticker prefix", func() {
			entity, err := resolver.Resolve(ctx, "EXVBX")
			Expect(err).ToNot(HaveOccurred())

			class := entity.(*funds.FundClass)
			Expect(class.Confidence()).To(Equal(funds.ConfidenceTickerPrefix))
			Expect(class.Series()).ToNot(BeNil())
			Expect(class.Series().SeriesID).To(Equal("S000008"))
		})

		It("leaves lineage unresolved when no heuristic matches", func() {
			entity, err := resolver.Resolve(ctx, "ZZTPX")
			Expect(err).ToNot(HaveOccurred())

			class := entity.(*funds.FundClass)
			Expect(class.Series()).To(BeNil())
			Expect(class.Confidence()).To(Equal(funds.ConfidenceNone))
		})

		It("surfaces duplicate tickers as AmbiguousTickerError", func() {
			_, err := resolver.Resolve(ctx, "DUPEX")

			var ambiguous *funds.AmbiguousTickerError
			Expect(err).To(HaveOccurred())
			Expect(errors.As(err, &ambiguous)).To(BeTrue())
			Expect(ambiguous.ClassIDs).To(ConsistOf("C000601", "C000602"))
		})

		It("fails with ErrNotFound for unknown tickers", func() {
			_, err := resolver.Resolve(ctx, "NOPEX")
			Expect(err).To(MatchError(funds.ErrNotFound))
		})
	})

	It("is idempotent by structural equality", func() {
		first, err := resolver.Resolve(ctx, "FCNTX")
		Expect(err).ToNot(HaveOccurred())

		second, err := resolver.Resolve(ctx, "FCNTX")
		Expect(err).ToNot(HaveOccurred())

		firstClass := first.(*funds.FundClass)
		secondClass := second.(*funds.FundClass)
		Expect(secondClass.ClassID).To(Equal(firstClass.ClassID))
		Expect(secondClass.Name).To(Equal(firstClass.Name))
		Expect(secondClass.Ticker).To(Equal(firstClass.Ticker))
		Expect(secondClass.SeriesID()).To(Equal(firstClass.SeriesID()))
	})

	It("supports concurrent resolution and uncoordinated field reads", func() {
		// readers access exported entity fields directly while other
		// goroutines are still merging; registered entities must never be
		// written after publication
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(2)

			go func() {
				defer GinkgoRecover()
				defer wg.Done()

				_, err := resolver.Resolve(ctx, "S000007")
				Expect(err).ToNot(HaveOccurred())
			}()

			go func() {
				defer GinkgoRecover()
				defer wg.Done()

				if company, ok := resolver.Registry().Company("0000315700"); ok {
					_ = company.Name
					_ = company.DisplayName()
					_ = company.SeriesIDs()
				}
				if series, ok := resolver.Registry().Series("S000007"); ok {
					_ = series.Name
					_ = series.CIK
				}
			}()
		}
		wg.Wait()

		company, ok := resolver.Registry().Company("0000315700")
		Expect(ok).To(BeTrue())
		Expect(company.Name).To(Equal("Example Capital Management"))
		Expect(company.SeriesIDs()).To(ContainElement("S000007"))
	})

	It("honors context cancellation", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		source := &cancellingSource{}
		entity, err := funds.NewResolver(source).Resolve(cancelled, "0000315700")
		Expect(entity).To(BeNil())
		Expect(err).To(MatchError(context.Canceled))
	})
})

// cancellingSource fails every lookup with the context's error, standing in
// for a network-bound source that honors cancellation
type cancellingSource struct{}

func (source *cancellingSource) Company(ctx context.Context, _ string) (*funds.CompanyRecord, error) {
	return nil, ctx.Err()
}

func (source *cancellingSource) Series(ctx context.Context, _ string) (*funds.SeriesRecord, error) {
	return nil, ctx.Err()
}

func (source *cancellingSource) Class(ctx context.Context, _ string) (*funds.ClassRecord, error) {
	return nil, ctx.Err()
}

func (source *cancellingSource) ClassByTicker(ctx context.Context, _ string) (*funds.ClassRecord, error) {
	return nil, ctx.Err()
}

func (source *cancellingSource) CompanySeries(ctx context.Context, _ string) ([]*funds.SeriesRecord, error) {
	return nil, ctx.Err()
}

func (source *cancellingSource) SeriesClasses(ctx context.Context, _ string) ([]*funds.ClassRecord, error) {
	return nil, ctx.Err()
}
