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

package attack

import (
	"fmt"
	"net/netip"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nullgrid/vnet/pkg/logger"
	"github.com/nullgrid/vnet/pkg/models"
	"github.com/nullgrid/vnet/pkg/registry"
)

var target = netip.MustParseAddr("203.0.113.10")

func sources(n int) []netip.Addr {
	out := make([]netip.Addr, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, netip.MustParseAddr(fmt.Sprintf("198.51.100.%d", i+1)))
	}

	return out
}

func newTestRegistry(t *testing.T) *registry.HostRegistry {
	t.Helper()

	reg := registry.New(nil, 0, logger.NewTestLogger())

	_, err := reg.Create(target, models.CategoryCorporation, uuid.Nil, "megacorp.com")
	require.NoError(t, err)

	return reg
}

func online(t *testing.T, reg *registry.HostRegistry) bool {
	t.Helper()

	host, ok := reg.Get(target)
	require.True(t, ok)

	return host.Online
}

func TestThresholdTakesHostOffline(t *testing.T) {
	reg := newTestRegistry(t)
	c := NewCoordinator(reg, 5, logger.NewTestLogger())

	require.NoError(t, c.Start(target, sources(5)))
	assert.True(t, online(t, reg), "availability must not change before a tick")

	c.Tick()
	assert.False(t, online(t, reg))
}

func TestBelowThresholdStaysOnline(t *testing.T) {
	reg := newTestRegistry(t)
	c := NewCoordinator(reg, 5, logger.NewTestLogger())

	require.NoError(t, c.Start(target, sources(4)))
	c.Tick()

	assert.True(t, online(t, reg))
	assert.Equal(t, 4, c.Sources(target))
}

func TestSourcesJoinIncrementally(t *testing.T) {
	reg := newTestRegistry(t)
	c := NewCoordinator(reg, 5, logger.NewTestLogger())

	all := sources(5)

	require.NoError(t, c.Start(target, all[:3]))
	c.Tick()
	assert.True(t, online(t, reg))

	// Re-joining sources does not inflate the count.
	require.NoError(t, c.Start(target, all[:3]))
	assert.Equal(t, 3, c.Sources(target))

	require.NoError(t, c.Start(target, all[3:]))
	assert.Equal(t, 5, c.Sources(target))

	c.Tick()
	assert.False(t, online(t, reg))
}

func TestTickIsIdempotent(t *testing.T) {
	reg := newTestRegistry(t)
	c := NewCoordinator(reg, 5, logger.NewTestLogger())

	require.NoError(t, c.Start(target, sources(5)))

	c.Tick()
	c.Tick()
	c.Tick()

	assert.False(t, online(t, reg))
	assert.Equal(t, 5, c.Sources(target), "the record survives the offline transition")
	assert.Equal(t, 1, c.Active())
}

func TestStopRestoresOnline(t *testing.T) {
	reg := newTestRegistry(t)
	c := NewCoordinator(reg, 5, logger.NewTestLogger())

	require.NoError(t, c.Start(target, sources(5)))
	c.Tick()
	require.False(t, online(t, reg))

	require.NoError(t, c.Stop(target))

	assert.True(t, online(t, reg))
	assert.Zero(t, c.Sources(target))
	assert.Zero(t, c.Active())
}

func TestStopRestoresEvenBelowThreshold(t *testing.T) {
	reg := newTestRegistry(t)
	c := NewCoordinator(reg, 5, logger.NewTestLogger())

	require.NoError(t, c.Start(target, sources(2)))
	require.NoError(t, c.Stop(target))

	assert.True(t, online(t, reg))
}

func TestStopWithoutCampaign(t *testing.T) {
	reg := newTestRegistry(t)
	c := NewCoordinator(reg, 5, logger.NewTestLogger())

	assert.ErrorIs(t, c.Stop(target), ErrNoActiveAttack)
}

func TestStartAgainstUnknownTarget(t *testing.T) {
	reg := registry.New(nil, 0, logger.NewTestLogger())
	c := NewCoordinator(reg, 5, logger.NewTestLogger())

	err := c.Start(target, sources(1))
	assert.ErrorIs(t, err, registry.ErrHostNotFound)
}

func TestStartAgainstOfflineTarget(t *testing.T) {
	reg := newTestRegistry(t)
	c := NewCoordinator(reg, 5, logger.NewTestLogger())

	require.NoError(t, reg.WithHost(target, func(h *models.Host) error {
		h.Online = false
		return nil
	}))

	err := c.Start(target, sources(1))
	assert.ErrorIs(t, err, registry.ErrHostOffline)
}

func TestZeroThresholdUsesDefault(t *testing.T) {
	reg := newTestRegistry(t)
	c := NewCoordinator(reg, 0, logger.NewTestLogger())

	require.NoError(t, c.Start(target, sources(DefaultOfflineThreshold-1)))
	c.Tick()
	assert.True(t, online(t, reg))

	require.NoError(t, c.Start(target, sources(DefaultOfflineThreshold)))
	c.Tick()
	assert.False(t, online(t, reg))
}
