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

// Package models provides the data model for the virtual internet: hosts,
// host categories and the category-derived gameplay tables.
package models

import (
	"net/netip"
	"time"

	"github.com/google/uuid"

	"github.com/nullgrid/vnet/pkg/ledger"
)

// Host is one addressable server in the game world. Hosts are created by
// the registry and mutated only through its exclusive accessor; they are
// never deleted — a destroyed host stays permanently offline so historical
// references keep resolving.
type Host struct {
	Addr          netip.Addr   `json:"addr"`
	Category      HostCategory `json:"category"`
	OwnerID       uuid.UUID    `json:"owner_id"` // uuid.Nil for world-owned hosts
	Name          string       `json:"name"`
	Online        bool         `json:"online"`
	FirewallLevel int          `json:"firewall_level"`
	TraceTime     time.Duration `json:"trace_time"`

	// Connections holds outbound peers by address, not by handle, so the
	// host graph stays index-based.
	Connections map[netip.Addr]struct{} `json:"-"`

	Logs *ledger.Ledger `json:"-"`
}

// NewHost creates an online host with its category-derived trace time and an
// empty log ledger of the given capacity (0 means ledger.DefaultCapacity).
func NewHost(addr netip.Addr, category HostCategory, owner uuid.UUID, name string, logCapacity int) *Host {
	return &Host{
		Addr:        addr,
		Category:    category,
		OwnerID:     owner,
		Name:        name,
		Online:      true,
		TraceTime:   TraceTime(category),
		Connections: make(map[netip.Addr]struct{}),
		Logs:        ledger.New(logCapacity),
	}
}

// WorldOwned reports whether the host belongs to the world rather than a
// player.
func (h *Host) WorldOwned() bool {
	return h.OwnerID == uuid.Nil
}

// Clone returns a deep copy safe to hand to asynchronous persistence while
// the original keeps mutating.
func (h *Host) Clone() *Host {
	out := *h

	out.Connections = make(map[netip.Addr]struct{}, len(h.Connections))
	for addr := range h.Connections {
		out.Connections[addr] = struct{}{}
	}

	if h.Logs != nil {
		out.Logs = h.Logs.Clone()
	}

	return &out
}
