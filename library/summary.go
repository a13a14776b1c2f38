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
package library

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary returns a description of the fund library in markdown
func (myLibrary *Library) Summary(ctx context.Context) (string, error) {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	if _, err := builder.WriteString("# Fund Library\n\n"); err != nil {
		return "", err
	}

	if _, err := builder.WriteString(fmt.Sprintf("Database: %s\n\n", myLibrary.DBUrl)); err != nil {
		return "", err
	}

	numCompanies, err := myLibrary.NumCompanies(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Fund Companies: %d\n", numCompanies)); err != nil {
		return "", err
	}

	numSeries, err := myLibrary.NumSeries(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Fund Series: %d\n", numSeries)); err != nil {
		return "", err
	}

	numClasses, err := myLibrary.NumClasses(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Share Classes: %d\n\n", numClasses)); err != nil {
		return "", err
	}

	lastRefreshed, err := myLibrary.LastRefreshed(ctx)
	if err != nil {
		return "", err
	}

	if lastRefreshed.Equal(time.Time{}) {
		if _, err := builder.WriteString("Last Refreshed: Never\n"); err != nil {
			return "", err
		}
	} else {
		age := timeago.English.Format(lastRefreshed)
		if _, err := builder.WriteString(fmt.Sprintf("Last Refreshed: %s (%s)\n", age,
			lastRefreshed.Local().Format("01/02/2006"))); err != nil {
			return "", err
		}
	}

	return builder.String(), nil
}
