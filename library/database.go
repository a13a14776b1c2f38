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

// Package library persists resolved fund entities in a PostgreSQL mirror.
// The mirror is an optional optimization layer: resolution itself always
// runs against EDGAR, the library only keeps a queryable local copy of the
// fund dictionary with whatever names and hierarchy links have been
// established.
package library

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/penny-vault/pvfunds/funds"
	"github.com/rs/zerolog/log"
)

type Library struct {
	DBUrl string

	Pool *pgxpool.Pool
}

// ClassRow is a share class as stored in the library
type ClassRow struct {
	ClassID     string    `db:"class_id" csv:"class_id"`
	SeriesID    string    `db:"series_id" csv:"series_id"`
	CIK         string    `db:"cik" csv:"cik"`
	Name        string    `db:"name" csv:"name"`
	Ticker      string    `db:"ticker" csv:"ticker"`
	Confidence  string    `db:"confidence" csv:"confidence"`
	LastUpdated time.Time `db:"last_updated" csv:"-"`
}

// Connect to the database configured for the library
func (myLibrary *Library) Connect(ctx context.Context) error {
	if myLibrary.Pool != nil {
		return nil
	}

	pool, err := pgxpool.New(ctx, myLibrary.DBUrl)
	if err != nil {
		return err
	}
	myLibrary.Pool = pool

	return nil
}

// Close the database pool
func (myLibrary *Library) Close() {
	myLibrary.Pool.Close()
}

// NewFromDB creates a new library object connected to the database
func NewFromDB(ctx context.Context, dbURL string) (*Library, error) {
	myLibrary := &Library{DBUrl: dbURL}
	if err := myLibrary.Connect(ctx); err != nil {
		return nil, err
	}

	if err := myLibrary.Pool.Ping(ctx); err != nil {
		return nil, err
	}

	return myLibrary, nil
}

// SaveCompany upserts a registrant record
func (myLibrary *Library) SaveCompany(ctx context.Context, record *funds.CompanyRecord) error {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	sql := `INSERT INTO companies ("cik", "name", "last_updated") VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT companies_pkey DO UPDATE SET
			name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE companies.name END,
			last_updated = EXCLUDED.last_updated`

	if _, err := conn.Exec(ctx, sql, record.CIK, record.Name, time.Now()); err != nil {
		log.Error().Err(err).Str("CIK", record.CIK).Msg("save company to DB failed")
		return err
	}

	return nil
}

// SaveSeries upserts a fund series record
func (myLibrary *Library) SaveSeries(ctx context.Context, record *funds.SeriesRecord) error {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	sql := `INSERT INTO series ("series_id", "cik", "name", "last_updated") VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT series_pkey DO UPDATE SET
			cik = EXCLUDED.cik,
			name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE series.name END,
			last_updated = EXCLUDED.last_updated`

	if _, err := conn.Exec(ctx, sql, record.SeriesID, record.CIK, record.Name, time.Now()); err != nil {
		log.Error().Err(err).Str("SeriesID", record.SeriesID).Msg("save series to DB failed")
		return err
	}

	return nil
}

// SaveClass upserts a share class record along with its association
// confidence. An established association is only replaced by one of equal
// or higher confidence; the stored confidence string orders the same way
// the resolver does.
func (myLibrary *Library) SaveClass(ctx context.Context, record *funds.ClassRecord, confidence funds.Confidence) error {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	sql := `INSERT INTO classes ("class_id", "series_id", "cik", "name", "ticker", "confidence", "last_updated")
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT ON CONSTRAINT classes_pkey DO UPDATE SET
			series_id = CASE WHEN EXCLUDED.series_id <> '' THEN EXCLUDED.series_id ELSE classes.series_id END,
			name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE classes.name END,
			ticker = CASE WHEN EXCLUDED.ticker <> '' THEN EXCLUDED.ticker ELSE classes.ticker END,
			confidence = CASE WHEN EXCLUDED.series_id <> '' THEN EXCLUDED.confidence ELSE classes.confidence END,
			last_updated = EXCLUDED.last_updated`

	if _, err := conn.Exec(ctx, sql, record.ClassID, record.SeriesID, record.CIK,
		record.Name, record.Ticker, confidence.String(), time.Now()); err != nil {
		log.Error().Err(err).Str("ClassID", record.ClassID).Msg("save class to DB failed")
		return err
	}

	return nil
}

// Classes returns every share class stored in the library ordered by ticker
func (myLibrary *Library) Classes(ctx context.Context) ([]*ClassRow, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx,
		`SELECT class_id, series_id, cik, name, ticker, confidence, last_updated FROM classes ORDER BY ticker, class_id`)
	if err != nil {
		return nil, err
	}

	var classes []*ClassRow
	if err := pgxscan.ScanAll(&classes, rows); err != nil {
		return nil, err
	}

	return classes, nil
}

// NumCompanies returns the count of registrants in the library
func (myLibrary *Library) NumCompanies(ctx context.Context) (int64, error) {
	return myLibrary.count(ctx, "SELECT count(*) FROM companies")
}

// NumSeries returns the count of fund series in the library
func (myLibrary *Library) NumSeries(ctx context.Context) (int64, error) {
	return myLibrary.count(ctx, "SELECT count(*) FROM series")
}

// NumClasses returns the count of share classes in the library
func (myLibrary *Library) NumClasses(ctx context.Context) (int64, error) {
	return myLibrary.count(ctx, "SELECT count(*) FROM classes")
}

// LastRefreshed returns the finish time of the most recent refresh run
func (myLibrary *Library) LastRefreshed(ctx context.Context) (time.Time, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return time.Time{}, err
	}
	defer conn.Release()

	var lastRefreshed time.Time
	err = conn.QueryRow(ctx,
		"SELECT coalesce(max(finished_at), '0001-01-01'::timestamp) FROM refresh_runs").Scan(&lastRefreshed)
	if err != nil {
		return time.Time{}, err
	}

	return lastRefreshed, nil
}

func (myLibrary *Library) count(ctx context.Context, sql string) (int64, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	var count int64
	err = conn.QueryRow(ctx, sql).Scan(&count)
	return count, err
}
