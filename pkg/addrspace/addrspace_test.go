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

package addrspace

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateIsDeterministicForSeed(t *testing.T) {
	a := New(42, 64)
	b := New(42, 64)

	for i := 0; i < 64; i++ {
		addrA, errA := a.Allocate()
		addrB, errB := b.Allocate()

		require.NoError(t, errA)
		require.NoError(t, errB)
		assert.Equal(t, addrA, addrB, "same seed must yield same allocation order")
	}
}

func TestAllocateNeverRepeats(t *testing.T) {
	p := New(7, 128)
	seen := make(map[netip.Addr]struct{}, 128)

	for i := 0; i < 128; i++ {
		addr, err := p.Allocate()
		require.NoError(t, err)

		_, dup := seen[addr]
		require.False(t, dup, "address %s handed out twice", addr)

		seen[addr] = struct{}{}
	}
}

func TestPoolExcludesReservedRanges(t *testing.T) {
	p := New(1, 2048)

	for i := 0; i < p.Size(); i++ {
		addr, err := p.Allocate()
		require.NoError(t, err)

		o := addr.As4()
		assert.NotEqual(t, byte(10), o[0], "10/8 is private: %s", addr)
		assert.NotEqual(t, byte(127), o[0], "127/8 is loopback: %s", addr)
		assert.False(t, o[0] == 192 && o[1] == 168, "192.168/16 is private: %s", addr)
		assert.False(t, o[0] == 172 && o[1] >= 16 && o[1] <= 31, "172.16/12 is private: %s", addr)
		assert.False(t, o[0] == 169 && o[1] == 254, "169.254/16 is link-local: %s", addr)
		assert.Less(t, o[0], byte(224), "multicast and above excluded: %s", addr)
	}
}

func TestExhaustion(t *testing.T) {
	p := New(3, 8)

	for i := 0; i < 8; i++ {
		_, err := p.Allocate()
		require.NoError(t, err)
	}

	_, err := p.Allocate()
	assert.ErrorIs(t, err, ErrPoolExhausted)
}

func TestReserveBlocksAllocation(t *testing.T) {
	p := New(5, 16)

	// Reserve every address up front; allocation must find nothing.
	probe := New(5, 16)
	for i := 0; i < 16; i++ {
		addr, err := probe.Allocate()
		require.NoError(t, err)
		p.Reserve(addr)
	}

	_, err := p.Allocate()
	assert.ErrorIs(t, err, ErrPoolExhausted)
}
