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

package db

import (
	"context"
	"net/netip"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nullgrid/vnet/pkg/ledger"
	"github.com/nullgrid/vnet/pkg/logger"
	"github.com/nullgrid/vnet/pkg/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "world.db"), logger.NewTestLogger())
	require.NoError(t, err)

	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	addr := netip.MustParseAddr("203.0.113.10")
	source := netip.MustParseAddr("198.51.100.2")
	owner := uuid.New()

	host := models.NewHost(addr, models.CategoryCorporation, owner, "megacorp.com", 0)
	host.FirewallLevel = 3
	host.Online = false

	login := ledger.NewEntry(source, ledger.ActionLogin, "Connection from 198.51.100.2")
	host.Logs.Append(login)

	hidden := ledger.NewEntry(source, ledger.ActionCrack, "cracked root")
	host.Logs.Append(hidden)
	require.NoError(t, host.Logs.Hide(hidden.ID))

	require.NoError(t, store.Save(ctx, host))

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded[0]
	assert.Equal(t, addr, got.Addr)
	assert.Equal(t, models.CategoryCorporation, got.Category)
	assert.Equal(t, owner, got.OwnerID)
	assert.Equal(t, "megacorp.com", got.Name)
	assert.False(t, got.Online)
	assert.Equal(t, 3, got.FirewallLevel)
	assert.Equal(t, 120*time.Second, got.TraceTime)

	entries := got.Logs.List(true)
	require.Len(t, entries, 2)
	assert.Equal(t, login.ID, entries[0].ID)
	assert.Equal(t, ledger.ActionLogin, entries[0].Action)
	assert.Equal(t, source, entries[0].Source)
	assert.True(t, entries[1].Hidden, "hidden flag survives the round trip")

	visible := got.Logs.List(false)
	assert.Len(t, visible, 1)
}

func TestSaveIsUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	addr := netip.MustParseAddr("203.0.113.10")
	host := models.NewHost(addr, models.CategoryBank, uuid.Nil, "firstbank.com", 0)

	require.NoError(t, store.Save(ctx, host))

	host.Online = false
	host.Name = "firstbank.net"
	require.NoError(t, store.Save(ctx, host))

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1, "a second save must update, not duplicate")

	assert.False(t, loaded[0].Online)
	assert.Equal(t, "firstbank.net", loaded[0].Name)
}

func TestSaveRewritesLogs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	addr := netip.MustParseAddr("203.0.113.10")
	source := netip.MustParseAddr("198.51.100.2")

	host := models.NewHost(addr, models.CategoryPersonal, uuid.Nil, "home", 0)
	host.Logs.Append(ledger.NewEntry(source, ledger.ActionLogin, "in"))
	require.NoError(t, store.Save(ctx, host))

	host.Logs.Clear()
	host.Logs.Append(ledger.NewEntry(source, ledger.ActionLogout, "out"))
	require.NoError(t, store.Save(ctx, host))

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	entries := loaded[0].Logs.List(true)
	require.Len(t, entries, 1)
	assert.Equal(t, ledger.ActionLogout, entries[0].Action)
}

func TestLoadAllEmpty(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
