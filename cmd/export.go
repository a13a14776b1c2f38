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

	"github.com/gocarina/gocsv"
	"github.com/penny-vault/pvfunds/library"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exportOutput string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export share classes from the fund library to CSV",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		myLibrary, err := library.NewFromDB(ctx, viper.GetString("db.url"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to fund library")
		}
		defer myLibrary.Close()

		classes, err := myLibrary.Classes(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load share classes")
		}

		out := os.Stdout
		if exportOutput != "" {
			out, err = os.Create(exportOutput)
			if err != nil {
				log.Fatal().Err(err).Str("FileName", exportOutput).Msg("could not create output file")
			}
			defer out.Close()
		}

		if err := gocsv.Marshal(classes, out); err != nil {
			log.Fatal().Err(err).Msg("could not write CSV")
		}

		log.Info().Int("NumClasses", len(classes)).Msg("exported share classes")
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write CSV to file instead of stdout")
}
