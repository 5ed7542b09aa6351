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

package engine

import (
	"fmt"
	"net/netip"

	"github.com/google/uuid"

	"github.com/nullgrid/vnet/pkg/ledger"
	"github.com/nullgrid/vnet/pkg/models"
	"github.com/nullgrid/vnet/pkg/registry"
	"github.com/nullgrid/vnet/pkg/route"
)

// Connect opens a session for actor from one address to an online target,
// recording a login entry at the target attributed to the source address.
func (e *Engine) Connect(actor uuid.UUID, from, to netip.Addr) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOnline(to); err != nil {
		return err
	}

	err := e.registry.WithHost(to, func(h *models.Host) error {
		h.Logs.Append(ledger.NewEntry(from, ledger.ActionLogin, fmt.Sprintf("Connection from %s", from)))
		return nil
	})
	if err != nil {
		return err
	}

	// The source may be an unregistered actor address; only registered
	// hosts track their outbound peers.
	_ = e.registry.WithHost(from, func(h *models.Host) error {
		h.Connections[to] = struct{}{}
		return nil
	})

	e.connections[actor] = connection{from: from, to: to}

	e.logger.Debug().
		Str("actor", actor.String()).
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("Connection established")

	return nil
}

// Disconnect closes the actor's active session and records a logout entry
// at the former target.
func (e *Engine) Disconnect(actor uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	conn, ok := e.connections[actor]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoActiveConnection, actor)
	}

	delete(e.connections, actor)

	_ = e.registry.WithHost(conn.from, func(h *models.Host) error {
		delete(h.Connections, conn.to)
		return nil
	})

	return e.registry.WithHost(conn.to, func(h *models.Host) error {
		h.Logs.Append(ledger.NewEntry(conn.from, ledger.ActionLogout, fmt.Sprintf("Disconnection from %s", conn.from)))
		return nil
	})
}

// Scan probes an online target and returns its category-derived open ports,
// leaving a scan entry in the target's logs.
func (e *Engine) Scan(from, target netip.Addr) ([]int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOnline(target); err != nil {
		return nil, err
	}

	host, _ := e.registry.Get(target)

	err := e.registry.WithHost(target, func(h *models.Host) error {
		h.Logs.Append(ledger.NewEntry(from, ledger.ActionScan, "Port scan detected"))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return models.OpenPorts(host.Category), nil
}

// StartAttack joins sources into the distributed attack against target and
// records one attack entry per contributing source. Availability only
// changes on a later Tick.
func (e *Engine) StartAttack(target netip.Addr, sources []netip.Addr) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.attacks.Start(target, sources); err != nil {
		return err
	}

	return e.registry.WithHost(target, func(h *models.Host) error {
		for _, source := range sources {
			h.Logs.Append(ledger.NewEntry(source, ledger.ActionDDoS, "Distributed attack detected"))
		}

		return nil
	})
}

// StopAttack ends the attack against target, restoring it online regardless
// of how many sources were attacking.
func (e *Engine) StopAttack(target netip.Addr) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.attacks.Stop(target)
}

// AttackSources returns how many distinct sources currently attack target.
func (e *Engine) AttackSources(target netip.Addr) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.attacks.Sources(target)
}

// CreatePlayerHost allocates an address and registers the player's personal
// server on it.
func (e *Engine) CreatePlayerHost(owner uuid.UUID) (*models.Host, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	addr, err := e.pool.Allocate()
	if err != nil {
		return nil, err
	}

	return e.registry.Create(addr, models.CategoryPersonal, owner, fmt.Sprintf("player-%s", owner))
}

// CreateRoute installs a route from source to destination, bounced when
// intermediates are given, and returns it.
func (e *Engine) CreateRoute(from, to netip.Addr, through []netip.Addr) route.Route {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.planner.Create(from, to, through)
}

// PlanRoute returns the installed route for the pair, else a direct route.
func (e *Engine) PlanRoute(from, to netip.Addr) route.Route {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.planner.Plan(from, to)
}

// TracePath returns the ordered hops a trace between the pair would walk.
func (e *Engine) TracePath(from, to netip.Addr) []netip.Addr {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.planner.TracePath(from, to)
}

// Resolve maps a hostname to its address.
func (e *Engine) Resolve(name string) (netip.Addr, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.registry.Resolve(name)
}

// ScanNetwork returns every registered address within the given octet
// distance of from: the sum of the absolute differences of the first two
// octets, a coarse notion of network neighborhood.
func (e *Engine) ScanNetwork(from netip.Addr, radius int) []netip.Addr {
	e.mu.Lock()
	defer e.mu.Unlock()

	fo := from.As4()

	var found []netip.Addr

	for _, addr := range e.registry.Addrs() {
		o := addr.As4()

		distance := abs(int(o[0])-int(fo[0])) + abs(int(o[1])-int(fo[1]))
		if distance <= radius {
			found = append(found, addr)
		}
	}

	return found
}

// HideLog marks a log entry at target as hidden, the "cover your tracks"
// mechanic. The entry persists and still shows up in forensic listings.
func (e *Engine) HideLog(target netip.Addr, id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.registry.WithHost(target, func(h *models.Host) error {
		return h.Logs.Hide(id)
	})
}

// EditLog rewrites a log entry's message at target, keeping its ID and
// action and marking it edited.
func (e *Engine) EditLog(target netip.Addr, id uuid.UUID, message string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.registry.WithHost(target, func(h *models.Host) error {
		return h.Logs.Edit(id, message)
	})
}

// ClearLogs wipes every log entry at target.
func (e *Engine) ClearLogs(target netip.Addr) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.registry.WithHost(target, func(h *models.Host) error {
		h.Logs.Clear()
		return nil
	})
}

// ListLogs returns the target's log entries in append order.
func (e *Engine) ListLogs(target netip.Addr, includeHidden bool) ([]ledger.Entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	host, ok := e.registry.Get(target)
	if !ok {
		return nil, fmt.Errorf("%w: %s", registry.ErrHostNotFound, target)
	}

	return host.Logs.List(includeHidden), nil
}

// requireOnline resolves the target and checks it is reachable. Callers
// hold the engine mutex.
func (e *Engine) requireOnline(target netip.Addr) error {
	host, ok := e.registry.Get(target)
	if !ok {
		return fmt.Errorf("%w: %s", registry.ErrHostNotFound, target)
	}

	if !host.Online {
		return fmt.Errorf("%w: %s", registry.ErrHostOffline, target)
	}

	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
