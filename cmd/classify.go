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
	"fmt"

	"github.com/penny-vault/pvfunds/funds"
	"github.com/spf13/cobra"
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify identifier...",
	Short: "Classify fund identifiers without resolving them",
	Long: `The classify sub-command reports what kind of EDGAR entity each identifier
names: a CIK, a series id (S followed by digits), a class id (C followed by
digits), or a ticker symbol. Classification is purely structural and does
not contact EDGAR.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, identifier := range args {
			kind := funds.Classify(identifier)
			fmt.Printf("%s\t%s\t%s\n", identifier, kind, funds.CanonicalID(kind, identifier))
		}
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
