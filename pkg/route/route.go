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

// Package route builds connection routes between addresses and scores their
// traceability. Routes reference addresses only, never host handles, and
// are immutable once built.
package route

import (
	"net/netip"
	"time"
)

const (
	// hopLatency is the coarse gameplay cost per hop, not a simulated RTT.
	hopLatency = 50 * time.Millisecond

	directDifficulty = 1
)

// Route is the path for one connection attempt: at least the source and
// destination, with any bounce hops in between.
type Route struct {
	Hops         []netip.Addr  `json:"hops"`
	TotalLatency time.Duration `json:"total_latency"`
	Bounced      bool          `json:"bounced"`
}

// Direct builds the two-hop route from source to destination.
func Direct(from, to netip.Addr) Route {
	return Route{
		Hops:         []netip.Addr{from, to},
		TotalLatency: hopLatency,
		Bounced:      false,
	}
}

// Bounced builds a route through the given intermediate hosts in order.
// With no intermediates the route degenerates to a direct one, including
// its difficulty formula.
func Bounced(from netip.Addr, through []netip.Addr, to netip.Addr) Route {
	if len(through) == 0 {
		return Direct(from, to)
	}

	hops := make([]netip.Addr, 0, len(through)+2)
	hops = append(hops, from)
	hops = append(hops, through...)
	hops = append(hops, to)

	return Route{
		Hops:         hops,
		TotalLatency: hopLatency * time.Duration(len(hops)),
		Bounced:      true,
	}
}

// TraceDifficulty scores how hard the route's true origin is to identify.
// Direct routes score 1; a bounced route with H hops scores (H-2)*2. The
// formula is gameplay-calibrated and must not drift.
func (r Route) TraceDifficulty() int {
	if !r.Bounced {
		return directDifficulty
	}

	return (len(r.Hops) - 2) * 2
}
