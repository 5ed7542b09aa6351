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

package route

import "net/netip"

type pair struct {
	from netip.Addr
	to   netip.Addr
}

// Planner caches one route per (source, destination) pair. It is not
// goroutine safe; the engine serializes access per world shard.
type Planner struct {
	routes map[pair]Route
}

// NewPlanner creates an empty planner.
func NewPlanner() *Planner {
	return &Planner{routes: make(map[pair]Route)}
}

// Create installs a route for the pair, bounced when intermediates are
// given, and returns it.
func (p *Planner) Create(from, to netip.Addr, through []netip.Addr) Route {
	r := Bounced(from, through, to)
	p.routes[pair{from: from, to: to}] = r

	return r
}

// Plan returns the cached route for the pair, falling back to a direct
// route when none was installed.
func (p *Planner) Plan(from, to netip.Addr) Route {
	if r, ok := p.routes[pair{from: from, to: to}]; ok {
		return r
	}

	return Direct(from, to)
}

// TracePath returns the ordered hops a trace between the pair would walk.
func (p *Planner) TracePath(from, to netip.Addr) []netip.Addr {
	return p.Plan(from, to).Hops
}

// Len returns the number of cached routes.
func (p *Planner) Len() int {
	return len(p.routes)
}
