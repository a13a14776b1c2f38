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
	"os/user"
	"time"

	"github.com/google/uuid"
)

// RefreshRun records one synchronization of the EDGAR fund dictionary into
// the library
type RefreshRun struct {
	ID uuid.UUID

	StartedAt  time.Time
	FinishedAt time.Time

	NumCompanies int64
	NumSeries    int64
	NumClasses   int64

	CreatedBy string

	Library *Library
}

// StartRefresh creates a new refresh run record
func (myLibrary *Library) StartRefresh(ctx context.Context) (*RefreshRun, error) {
	run := &RefreshRun{
		ID:        uuid.New(),
		StartedAt: time.Now(),
		Library:   myLibrary,
	}

	if currentUser, err := user.Current(); err == nil {
		run.CreatedBy = currentUser.Username
	}

	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx,
		`INSERT INTO refresh_runs ("id", "started_at", "created_by") VALUES ($1, $2, $3)`,
		run.ID, run.StartedAt, run.CreatedBy)
	if err != nil {
		return nil, err
	}

	return run, nil
}

// Finish stamps the run with its end time and entity counts
func (run *RefreshRun) Finish(ctx context.Context) error {
	run.FinishedAt = time.Now()

	conn, err := run.Library.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx,
		`UPDATE refresh_runs SET finished_at=$2, num_companies=$3, num_series=$4, num_classes=$5 WHERE id=$1`,
		run.ID, run.FinishedAt, run.NumCompanies, run.NumSeries, run.NumClasses)
	return err
}
