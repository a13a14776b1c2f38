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
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
	"github.com/penny-vault/pvfunds/edgar"
	"github.com/penny-vault/pvfunds/funds"
	"github.com/penny-vault/pvfunds/healthcheck"
	"github.com/penny-vault/pvfunds/library"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	refreshSchedule     string
	registerHealthcheck bool
)

// refreshCmd represents the refresh command
var refreshCmd = &cobra.Command{
	Use:   "refresh [cik...]",
	Short: "Sync the EDGAR fund dictionary into the local fund library",
	Long: `The refresh sub-command downloads EDGAR's mutual-fund ticker dictionary and
mirrors the fund hierarchy (companies, series, and share classes) into the
local PostgreSQL fund library. When CIK arguments are given, registrant and
series names for those companies are also fetched and stored; a bare refresh
syncs identifiers and tickers only, which keeps the run within SEC's
fair-access rate limits.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		myLibrary, err := library.NewFromDB(ctx, viper.GetString("db.url"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to fund library")
		}
		defer myLibrary.Close()

		checkID := viper.GetString("healthchecks.checkid")
		if registerHealthcheck {
			checkSlug := slug.Make("pvfunds refresh")
			checkID, err = healthcheck.Create("pvfunds refresh", checkSlug,
				[]string{"pvfunds", "edgar"}, refreshSchedule)
			if err != nil {
				log.Fatal().Err(err).Msg("could not create health check")
			}

			if err := persistCheckID(checkID); err != nil {
				log.Error().Err(err).Str("CheckID", checkID).
					Msg("could not save health check id; set healthchecks.checkid manually")
			}
			log.Info().Str("CheckID", checkID).Msg("registered health check")
		}

		run, err := myLibrary.StartRefresh(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not record refresh run")
		}

		if err := refreshLibrary(ctx, myLibrary, run, args); err != nil {
			if checkID != "" {
				if pingErr := healthcheck.Fail(checkID); pingErr != nil {
					log.Error().Err(pingErr).Msg("could not signal failed run to health check")
				}
			}
			log.Fatal().Err(err).Msg("refresh failed")
		}

		if err := run.Finish(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not finalize refresh run")
		}

		if checkID != "" {
			if err := healthcheck.Ping(checkID); err != nil {
				log.Error().Err(err).Msg("could not ping health check")
			}
		}

		log.Info().Int64("NumCompanies", run.NumCompanies).Int64("NumSeries", run.NumSeries).
			Int64("NumClasses", run.NumClasses).Msg("refresh complete")
	},
}

// persistCheckID stores a newly registered health check id in the config
// file so later refresh runs ping the same check
func persistCheckID(checkID string) error {
	viper.Set("healthchecks.checkid", checkID)

	if viper.ConfigFileUsed() == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		return viper.WriteConfigAs(filepath.Join(home, ".pvfunds.toml"))
	}

	return viper.WriteConfig()
}

func refreshLibrary(ctx context.Context, myLibrary *library.Library, run *library.RefreshRun, ciks []string) error {
	client := edgar.New()

	rows, err := client.FundTickers(ctx)
	if err != nil {
		return err
	}

	companies := make(map[string]*funds.CompanyRecord)
	series := make(map[string]*funds.SeriesRecord)

	for _, row := range rows {
		company, ok := companies[row.CIK]
		if !ok {
			company = &funds.CompanyRecord{CIK: row.CIK}
			companies[row.CIK] = company
		}

		if row.SeriesID != "" {
			if _, ok := series[row.SeriesID]; !ok {
				series[row.SeriesID] = &funds.SeriesRecord{SeriesID: row.SeriesID, CIK: row.CIK}
				company.SeriesIDs = append(company.SeriesIDs, row.SeriesID)
			}
		}

		classRecord := &funds.ClassRecord{
			ClassID:  row.ClassID,
			Ticker:   row.Ticker,
			CIK:      row.CIK,
			SeriesID: row.SeriesID,
		}

		confidence := funds.ConfidenceNone
		if row.SeriesID != "" {
			confidence = funds.ConfidenceExplicit
		}

		if err := myLibrary.SaveClass(ctx, classRecord, confidence); err != nil {
			return err
		}
		run.NumClasses++
	}

	// fetch names for explicitly requested registrants
	for _, cik := range ciks {
		record, err := client.Company(ctx, funds.PadCIK(cik))
		if err != nil {
			return err
		}
		companies[record.CIK] = record

		seriesRecords, err := client.CompanySeries(ctx, record.CIK)
		if err != nil {
			return err
		}
		for _, seriesRecord := range seriesRecords {
			series[seriesRecord.SeriesID] = seriesRecord
		}
	}

	for _, record := range series {
		if err := myLibrary.SaveSeries(ctx, record); err != nil {
			return err
		}
		run.NumSeries++
	}

	for _, record := range companies {
		if err := myLibrary.SaveCompany(ctx, record); err != nil {
			return err
		}
		run.NumCompanies++
	}

	return nil
}

func init() {
	rootCmd.AddCommand(refreshCmd)

	refreshCmd.Flags().StringVar(&refreshSchedule, "schedule", "0 6 * * *", "cron schedule registered with the health check")
	refreshCmd.Flags().BoolVar(&registerHealthcheck, "register-check", false, "create a healthchecks.io check for this refresh job")
}
