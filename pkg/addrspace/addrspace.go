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

// Package addrspace allocates the public addresses handed to new hosts.
//
// The pool is precomputed from an injected seed so world generation is
// reproducible: the same seed always yields the same addresses in the same
// order. Private and reserved ranges never appear in the pool.
package addrspace

import (
	"errors"
	"math/rand"
	"net/netip"
)

// DefaultPoolSize bounds how many hosts a world shard can allocate before
// exhaustion. Exhaustion is a shard sizing error, not a runtime condition.
const DefaultPoolSize = 4096

var ErrPoolExhausted = errors.New("address pool exhausted")

// Pool hands out unique public IPv4 addresses for one world shard.
type Pool struct {
	addrs []netip.Addr
	used  map[netip.Addr]struct{}
	next  int
}

// New precomputes a pool of size distinct public addresses from the seed.
// A non-positive size falls back to DefaultPoolSize.
func New(seed int64, size int) *Pool {
	if size <= 0 {
		size = DefaultPoolSize
	}

	rng := rand.New(rand.NewSource(seed)) // #nosec G404 - gameplay addresses, not secrets

	p := &Pool{
		addrs: make([]netip.Addr, 0, size),
		used:  make(map[netip.Addr]struct{}, size),
	}

	seen := make(map[netip.Addr]struct{}, size)

	for len(p.addrs) < size {
		addr := randomAddr(rng)

		if isReserved(addr) {
			continue
		}

		if _, dup := seen[addr]; dup {
			continue
		}

		seen[addr] = struct{}{}
		p.addrs = append(p.addrs, addr)
	}

	return p
}

// Allocate returns the next free address, cycling the precomputed pool and
// skipping addresses already handed out or reserved. O(1) amortized.
func (p *Pool) Allocate() (netip.Addr, error) {
	for i := 0; i < len(p.addrs); i++ {
		addr := p.addrs[p.next]
		p.next = (p.next + 1) % len(p.addrs)

		if _, taken := p.used[addr]; taken {
			continue
		}

		p.used[addr] = struct{}{}

		return addr, nil
	}

	return netip.Addr{}, ErrPoolExhausted
}

// Reserve marks an externally assigned address (a pinned world host) so
// Allocate never hands it out.
func (p *Pool) Reserve(addr netip.Addr) {
	p.used[addr] = struct{}{}
}

// Size returns the number of addresses in the pool.
func (p *Pool) Size() int {
	return len(p.addrs)
}

func randomAddr(rng *rand.Rand) netip.Addr {
	return netip.AddrFrom4([4]byte{
		byte(1 + rng.Intn(223)), // stay below the multicast space
		byte(rng.Intn(256)),
		byte(rng.Intn(256)),
		byte(1 + rng.Intn(254)),
	})
}

// isReserved reports whether addr falls in a private or otherwise
// non-routable range that must not appear in the game world.
func isReserved(addr netip.Addr) bool {
	o := addr.As4()

	switch {
	case o[0] == 10, o[0] == 127:
		return true
	case o[0] == 172 && o[1] >= 16 && o[1] <= 31:
		return true
	case o[0] == 192 && o[1] == 168:
		return true
	case o[0] == 169 && o[1] == 254:
		return true
	case o[0] >= 224:
		return true
	}

	return false
}
