/*
 * Copyright 2026 Nullgrid Labs.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package db provides the SQLite-backed persistence adapter for the host
// registry. The core never waits on it: saves arrive fire-and-forget and the
// registry stays correct if the adapter is absent or lagging.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/netip"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/nullgrid/vnet/pkg/ledger"
	"github.com/nullgrid/vnet/pkg/logger"
	"github.com/nullgrid/vnet/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS hosts (
	addr           TEXT PRIMARY KEY,
	category       TEXT NOT NULL,
	owner_id       TEXT NOT NULL,
	name           TEXT NOT NULL,
	online         INTEGER NOT NULL,
	firewall_level INTEGER NOT NULL,
	trace_time_ms  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS host_logs (
	id        TEXT NOT NULL,
	host_addr TEXT NOT NULL REFERENCES hosts(addr),
	position  INTEGER NOT NULL,
	created   INTEGER NOT NULL,
	source    TEXT NOT NULL,
	action    TEXT NOT NULL,
	message   TEXT NOT NULL,
	hidden    INTEGER NOT NULL,
	edited    INTEGER NOT NULL,
	PRIMARY KEY (host_addr, position)
);
`

// SQLiteStore implements registry.Store on a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger logger.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path and
// bootstraps the schema.
func NewSQLiteStore(path string, log logger.Logger) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}

	if _, err := conn.ExecContext(context.Background(), schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}

	return &SQLiteStore{db: conn, logger: log}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save upserts the host row and rewrites its log entries in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, host *models.Host) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO hosts (addr, category, owner_id, name, online, firewall_level, trace_time_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(addr) DO UPDATE SET
			category = excluded.category,
			owner_id = excluded.owner_id,
			name = excluded.name,
			online = excluded.online,
			firewall_level = excluded.firewall_level,
			trace_time_ms = excluded.trace_time_ms`,
		host.Addr.String(), string(host.Category), host.OwnerID.String(), host.Name,
		boolToInt(host.Online), host.FirewallLevel, host.TraceTime.Milliseconds())
	if err != nil {
		return fmt.Errorf("upsert host %s: %w", host.Addr, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM host_logs WHERE host_addr = ?`, host.Addr.String()); err != nil {
		return fmt.Errorf("clear host logs: %w", err)
	}

	if host.Logs != nil {
		for i, entry := range host.Logs.List(true) {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO host_logs (id, host_addr, position, created, source, action, message, hidden, edited)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				entry.ID.String(), host.Addr.String(), i, entry.Time.UnixMilli(),
				entry.Source.String(), string(entry.Action), entry.Message,
				boolToInt(entry.Hidden), boolToInt(entry.Edited))
			if err != nil {
				return fmt.Errorf("insert host log: %w", err)
			}
		}
	}

	return tx.Commit()
}

// LoadAll reads every persisted host with its log ledger, in no particular
// order.
func (s *SQLiteStore) LoadAll(ctx context.Context) ([]*models.Host, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT addr, category, owner_id, name, online, firewall_level, trace_time_ms FROM hosts`)
	if err != nil {
		return nil, fmt.Errorf("query hosts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var hosts []*models.Host

	for rows.Next() {
		host, err := scanHost(rows)
		if err != nil {
			return nil, err
		}

		hosts = append(hosts, host)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hosts: %w", err)
	}

	for _, host := range hosts {
		entries, err := s.loadEntries(ctx, host.Addr)
		if err != nil {
			return nil, err
		}

		host.Logs = ledger.Restore(ledger.DefaultCapacity, entries)
	}

	return hosts, nil
}

func scanHost(rows *sql.Rows) (*models.Host, error) {
	var (
		addrStr, category, ownerStr, name string
		online, firewall                  int
		traceMs                           int64
	)

	if err := rows.Scan(&addrStr, &category, &ownerStr, &name, &online, &firewall, &traceMs); err != nil {
		return nil, fmt.Errorf("scan host: %w", err)
	}

	addr, err := netip.ParseAddr(addrStr)
	if err != nil {
		return nil, fmt.Errorf("parse host addr %q: %w", addrStr, err)
	}

	owner, err := uuid.Parse(ownerStr)
	if err != nil {
		return nil, fmt.Errorf("parse host owner %q: %w", ownerStr, err)
	}

	return &models.Host{
		Addr:          addr,
		Category:      models.HostCategory(category),
		OwnerID:       owner,
		Name:          name,
		Online:        online != 0,
		FirewallLevel: firewall,
		TraceTime:     time.Duration(traceMs) * time.Millisecond,
		Connections:   make(map[netip.Addr]struct{}),
	}, nil
}

func (s *SQLiteStore) loadEntries(ctx context.Context, addr netip.Addr) ([]ledger.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created, source, action, message, hidden, edited
		FROM host_logs WHERE host_addr = ? ORDER BY position`, addr.String())
	if err != nil {
		return nil, fmt.Errorf("query host logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []ledger.Entry

	for rows.Next() {
		var (
			idStr, sourceStr, action, message string
			created                           int64
			hidden, edited                    int
		)

		if err := rows.Scan(&idStr, &created, &sourceStr, &action, &message, &hidden, &edited); err != nil {
			return nil, fmt.Errorf("scan host log: %w", err)
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parse log id %q: %w", idStr, err)
		}

		source, err := netip.ParseAddr(sourceStr)
		if err != nil {
			return nil, fmt.Errorf("parse log source %q: %w", sourceStr, err)
		}

		entries = append(entries, ledger.Entry{
			ID:      id,
			Time:    time.UnixMilli(created),
			Source:  source,
			Action:  ledger.Action(action),
			Message: message,
			Hidden:  hidden != 0,
			Edited:  edited != 0,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate host logs: %w", err)
	}

	return entries, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}
