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

// Package engine composes the network simulation components behind the
// player-facing verbs: connect, disconnect, scan and distributed attacks,
// plus the periodic tick that re-evaluates attack pressure.
//
// One Engine owns one world shard. A single mutex serializes every verb and
// tick; verbs are short critical sections that never block on I/O, and
// persistence fires after the critical section commits.
package engine

import (
	"context"
	"errors"
	"net/netip"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nullgrid/vnet/pkg/addrspace"
	"github.com/nullgrid/vnet/pkg/attack"
	"github.com/nullgrid/vnet/pkg/logger"
	"github.com/nullgrid/vnet/pkg/registry"
	"github.com/nullgrid/vnet/pkg/route"
)

const defaultTickInterval = time.Second

var ErrNoActiveConnection = errors.New("no active connection for actor")

// Config tunes one world shard. Zero values fall back to the reference
// gameplay constants.
type Config struct {
	TickInterval     time.Duration
	OfflineThreshold int
}

type connection struct {
	from netip.Addr
	to   netip.Addr
}

// Stats is a point-in-time snapshot of shard load, for monitoring.
type Stats struct {
	Hosts             int `json:"hosts"`
	ActiveConnections int `json:"active_connections"`
	ActiveAttacks     int `json:"active_attacks"`
	CachedRoutes      int `json:"cached_routes"`
}

// Engine is the network simulation facade for one world shard.
type Engine struct {
	mu          sync.Mutex
	registry    *registry.HostRegistry
	planner     *route.Planner
	attacks     *attack.Coordinator
	pool        *addrspace.Pool
	connections map[uuid.UUID]connection

	tickInterval time.Duration
	lastTick     time.Time
	logger       logger.Logger

	done     chan struct{}
	stopOnce sync.Once
}

// New wires an engine over the shard's registry and address pool.
func New(reg *registry.HostRegistry, pool *addrspace.Pool, cfg Config, log logger.Logger) *Engine {
	interval := cfg.TickInterval
	if interval <= 0 {
		interval = defaultTickInterval
	}

	return &Engine{
		registry:     reg,
		planner:      route.NewPlanner(),
		attacks:      attack.NewCoordinator(reg, cfg.OfflineThreshold, log.WithComponent("attack")),
		pool:         pool,
		connections:  make(map[uuid.UUID]connection),
		tickInterval: interval,
		logger:       log,
		done:         make(chan struct{}),
	}
}

// Tick drives one round of periodic evaluation. This is the only place
// availability changes as a side effect of elapsed time rather than a verb;
// it is idempotent under wall-clock drift because the attack coordinator
// transitions on state, not on deltas.
func (e *Engine) Tick(elapsed time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.attacks.Tick()
	e.lastTick = time.Now()

	e.logger.Trace().Dur("elapsed", elapsed).Msg("Engine tick")
}

// Run drives Tick at the configured interval until the context is canceled
// or Stop is called.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()

	e.logger.Info().Dur("interval", e.tickInterval).Msg("Starting engine tick loop")

	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info().Msg("Context canceled, stopping engine")
			return ctx.Err()
		case <-e.done:
			e.logger.Info().Msg("Received done signal, stopping engine")
			return nil
		case t := <-ticker.C:
			e.Tick(t.Sub(last))
			last = t
		}
	}
}

// Stop ends a running Run loop. Safe to call more than once.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.done) })
}

// Stats returns a snapshot of shard load.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Stats{
		Hosts:             e.registry.Len(),
		ActiveConnections: len(e.connections),
		ActiveAttacks:     e.attacks.Active(),
		CachedRoutes:      e.planner.Len(),
	}
}
