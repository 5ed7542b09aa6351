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

// Package registry owns every host of one world shard, keyed by address,
// together with the name resolution table.
//
// The registry is an explicit instance passed by handle into every
// component; no ambient state exists. It is not goroutine safe: exactly one
// logical owner (the engine) serializes access per shard. A multi-shard
// deployment shards by address range instead of adding locks here.
package registry

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/google/uuid"

	"github.com/nullgrid/vnet/pkg/logger"
	"github.com/nullgrid/vnet/pkg/models"
)

// saveTimeout bounds a single fire-and-forget save.
const saveTimeout = 5 * time.Second

// HostRegistry is the single source of truth for host existence and online
// state within one world shard.
type HostRegistry struct {
	hosts       map[netip.Addr]*models.Host
	names       map[string]netip.Addr
	store       Store
	logCapacity int
	logger      logger.Logger
}

// New creates an empty registry. store may be nil for storeless shards.
// logCapacity sets the per-host log ledger size (0 means the stock default).
func New(store Store, logCapacity int, log logger.Logger) *HostRegistry {
	return &HostRegistry{
		hosts:       make(map[netip.Addr]*models.Host),
		names:       make(map[string]netip.Addr),
		store:       store,
		logCapacity: logCapacity,
		logger:      log,
	}
}

// Load installs every host the store knows about. Called once at bootstrap,
// before the shard starts serving verbs.
func (r *HostRegistry) Load(ctx context.Context) (int, error) {
	if r.store == nil {
		return 0, nil
	}

	hosts, err := r.store.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load hosts: %w", err)
	}

	for _, host := range hosts {
		r.hosts[host.Addr] = host
		r.names[host.Name] = host.Addr
	}

	r.logger.Info().Int("hosts", len(hosts)).Msg("Loaded hosts from store")

	return len(hosts), nil
}

// Create registers a new online host at addr. The trace-time baseline is
// derived from the category here and fixed for the host's lifetime.
func (r *HostRegistry) Create(
	addr netip.Addr, category models.HostCategory, owner uuid.UUID, name string) (*models.Host, error) {
	if _, exists := r.hosts[addr]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateAddress, addr)
	}

	host := models.NewHost(addr, category, owner, name, r.logCapacity)

	r.hosts[addr] = host
	// Name resolution is last-write-wins per name.
	r.names[name] = addr

	r.logger.Debug().
		Str("addr", addr.String()).
		Str("category", string(category)).
		Str("name", name).
		Msg("Registered host")

	r.persist(host)

	return host, nil
}

// Resolve maps a hostname to its address.
func (r *HostRegistry) Resolve(name string) (netip.Addr, bool) {
	addr, ok := r.names[name]
	return addr, ok
}

// Get returns the host at addr for read-only use. Mutation goes through
// WithHost.
func (r *HostRegistry) Get(addr netip.Addr) (*models.Host, bool) {
	host, ok := r.hosts[addr]
	return host, ok
}

// WithHost runs fn with the exclusive mutable view of the host at addr and
// fires a save once fn returns nil. No two components ever hold overlapping
// mutable views: all mutation funnels through here.
func (r *HostRegistry) WithHost(addr netip.Addr, fn func(*models.Host) error) error {
	host, ok := r.hosts[addr]
	if !ok {
		return fmt.Errorf("%w: %s", ErrHostNotFound, addr)
	}

	if err := fn(host); err != nil {
		return err
	}

	r.persist(host)

	return nil
}

// Online reports whether a host exists at addr and is reachable.
func (r *HostRegistry) Online(addr netip.Addr) bool {
	host, ok := r.hosts[addr]
	return ok && host.Online
}

// Addrs returns every registered address.
func (r *HostRegistry) Addrs() []netip.Addr {
	out := make([]netip.Addr, 0, len(r.hosts))
	for addr := range r.hosts {
		out = append(out, addr)
	}

	return out
}

// Len returns the number of registered hosts.
func (r *HostRegistry) Len() int {
	return len(r.hosts)
}

// persist snapshots the host and hands it to the store without blocking the
// caller's critical section.
func (r *HostRegistry) persist(host *models.Host) {
	if r.store == nil {
		return
	}

	snapshot := host.Clone()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		if err := r.store.Save(ctx, snapshot); err != nil {
			r.logger.Warn().Err(err).Str("addr", snapshot.Addr.String()).Msg("Host save failed")
		}
	}()
}
