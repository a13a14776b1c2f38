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
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/penny-vault/pvfunds/edgar"
	"github.com/penny-vault/pvfunds/funds"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve identifier...",
	Short: "Resolve fund identifiers to entities in SEC EDGAR",
	Long: `The resolve sub-command classifies each identifier and fetches the matching
entity from SEC EDGAR: a fund company for CIKs, a fund series for series
ids, and a share class for class ids and tickers. When EDGAR does not state
which series owns a share class, resolve infers the link from fund naming
and ticker conventions and reports the confidence of the inference.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		resolver := funds.NewResolver(edgar.New())

		r, _ := glamour.NewTermRenderer(
			// detect background color and pick either the default dark or light theme
			glamour.WithAutoStyle(),
			// wrap output at specific width (default is 80)
			glamour.WithWordWrap(80),
		)

		for _, identifier := range args {
			entity, err := resolver.Resolve(ctx, identifier)
			if err != nil {
				log.Fatal().Err(err).Str("Identifier", identifier).Msg("could not resolve identifier")
			}

			out, err := r.Render(entityMarkdown(entity))
			if err != nil {
				log.Fatal().Err(err).Msg("could not render entity document")
			}

			fmt.Print(out)
		}
	},
}

// entityMarkdown describes a resolved entity and its hierarchy in markdown
func entityMarkdown(entity funds.Entity) string {
	builder := strings.Builder{}

	switch e := entity.(type) {
	case *funds.FundCompany:
		builder.WriteString(fmt.Sprintf("# %s\n\n", displayName(e)))
		builder.WriteString(fmt.Sprintf("  * Type: Fund Company\n  * CIK: %s\n", e.CIK))
		if ids := e.SeriesIDs(); len(ids) > 0 {
			builder.WriteString(fmt.Sprintf("  * Series: %s\n", strings.Join(ids, ", ")))
		}
	case *funds.FundSeries:
		builder.WriteString(fmt.Sprintf("# %s\n\n", displayName(e)))
		builder.WriteString(fmt.Sprintf("  * Type: Fund Series\n  * Series ID: %s\n", e.SeriesID))
		if company := e.Company(); company != nil {
			builder.WriteString(fmt.Sprintf("  * Company: %s (CIK %s)\n", displayName(company), company.CIK))
		}
		if ids := e.ClassIDs(); len(ids) > 0 {
			builder.WriteString(fmt.Sprintf("  * Classes: %s\n", strings.Join(ids, ", ")))
		}
	case *funds.FundClass:
		builder.WriteString(fmt.Sprintf("# %s\n\n", displayName(e)))
		builder.WriteString(fmt.Sprintf("  * Type: Share Class\n  * Class ID: %s\n", e.ClassID))
		if e.Ticker != "" {
			builder.WriteString(fmt.Sprintf("  * Ticker: %s\n", e.Ticker))
		}
		if series := e.Series(); series != nil {
			builder.WriteString(fmt.Sprintf("  * Series: %s (%s, %s)\n", displayName(series),
				series.SeriesID, e.Confidence()))
			if company := series.Company(); company != nil {
				builder.WriteString(fmt.Sprintf("  * Company: %s (CIK %s)\n", displayName(company), company.CIK))
			}
		} else {
			builder.WriteString("  * Series: unresolved\n")
		}
	}

	return builder.String()
}

func displayName(entity funds.Entity) string {
	if name := entity.DisplayName(); name != "" {
		return name
	}

	return entity.ID()
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
