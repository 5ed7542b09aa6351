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

package worldgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nullgrid/vnet/pkg/addrspace"
	"github.com/nullgrid/vnet/pkg/logger"
	"github.com/nullgrid/vnet/pkg/models"
	"github.com/nullgrid/vnet/pkg/registry"
)

func TestSeedPopulatesShard(t *testing.T) {
	reg := registry.New(nil, 0, logger.NewTestLogger())
	pool := addrspace.New(1, 256)

	require.NoError(t, Seed(reg, pool, Config{NPCHosts: 10}, logger.NewTestLogger()))

	assert.Equal(t, WellKnownCount()+10, reg.Len())

	fbi, ok := reg.Resolve("fbi.gov")
	require.True(t, ok)

	host, ok := reg.Get(fbi)
	require.True(t, ok)
	assert.Equal(t, models.CategoryLawEnforcement, host.Category)
	assert.True(t, host.WorldOwned())
	assert.True(t, host.Online)

	bank, ok := reg.Resolve("firstbank.com")
	require.True(t, ok)

	bankHost, _ := reg.Get(bank)
	assert.Equal(t, models.CategoryBank, bankHost.Category)
	assert.Equal(t, []int{22, 80, 443, 1521}, models.OpenPorts(bankHost.Category))

	npc, ok := reg.Resolve("npc1.local")
	require.True(t, ok)

	npcHost, _ := reg.Get(npc)
	assert.Equal(t, models.CategoryNPC, npcHost.Category)
}

func TestSeedDefaultsNPCCount(t *testing.T) {
	reg := registry.New(nil, 0, logger.NewTestLogger())
	pool := addrspace.New(1, 256)

	require.NoError(t, Seed(reg, pool, Config{}, logger.NewTestLogger()))

	assert.Equal(t, WellKnownCount()+DefaultNPCHosts, reg.Len())
}

func TestSeedIsDeterministicForPoolSeed(t *testing.T) {
	regA := registry.New(nil, 0, logger.NewTestLogger())
	regB := registry.New(nil, 0, logger.NewTestLogger())

	require.NoError(t, Seed(regA, addrspace.New(7, 256), Config{NPCHosts: 5}, logger.NewTestLogger()))
	require.NoError(t, Seed(regB, addrspace.New(7, 256), Config{NPCHosts: 5}, logger.NewTestLogger()))

	addrA, okA := regA.Resolve("npc3.local")
	addrB, okB := regB.Resolve("npc3.local")

	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, addrA, addrB)
}

func TestSeedReservesPinnedAddresses(t *testing.T) {
	reg := registry.New(nil, 0, logger.NewTestLogger())
	pool := addrspace.New(1, 256)

	require.NoError(t, Seed(reg, pool, Config{NPCHosts: 5}, logger.NewTestLogger()))

	// Allocating the rest of the pool must never collide with a seeded host.
	for {
		addr, err := pool.Allocate()
		if err != nil {
			break
		}

		_, taken := reg.Get(addr)
		assert.False(t, taken, "pool handed out the address of seeded host %s", addr)
	}
}
