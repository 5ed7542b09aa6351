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

// Package attack tracks distributed attack campaigns and flips host
// availability once enough distinct sources pile onto one target.
package attack

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/nullgrid/vnet/pkg/logger"
	"github.com/nullgrid/vnet/pkg/models"
	"github.com/nullgrid/vnet/pkg/registry"
)

// DefaultOfflineThreshold is the reference attack-pressure threshold: the
// number of distinct concurrent sources that takes a host offline.
const DefaultOfflineThreshold = 5

var ErrNoActiveAttack = errors.New("no active attack on target")

// Coordinator tracks at most one active campaign per target. Sources may
// join incrementally across Start calls; availability changes only on Tick
// (offline) or Stop (online).
type Coordinator struct {
	registry  *registry.HostRegistry
	records   map[netip.Addr]map[netip.Addr]struct{}
	threshold int
	logger    logger.Logger
}

// NewCoordinator creates a coordinator over the shard's registry. A
// non-positive threshold falls back to DefaultOfflineThreshold.
func NewCoordinator(reg *registry.HostRegistry, threshold int, log logger.Logger) *Coordinator {
	if threshold <= 0 {
		threshold = DefaultOfflineThreshold
	}

	return &Coordinator{
		registry:  reg,
		records:   make(map[netip.Addr]map[netip.Addr]struct{}),
		threshold: threshold,
		logger:    log,
	}
}

// Start merges sources into the target's active campaign, creating the
// record on first use. Starting against an offline target is invalid: the
// campaign that took it down still owns the record.
func (c *Coordinator) Start(target netip.Addr, sources []netip.Addr) error {
	host, ok := c.registry.Get(target)
	if !ok {
		return fmt.Errorf("%w: %s", registry.ErrHostNotFound, target)
	}

	if !host.Online {
		return fmt.Errorf("%w: %s is already offline", registry.ErrHostOffline, target)
	}

	record, ok := c.records[target]
	if !ok {
		record = make(map[netip.Addr]struct{}, len(sources))
		c.records[target] = record
	}

	for _, source := range sources {
		record[source] = struct{}{}
	}

	c.logger.Debug().
		Str("target", target.String()).
		Int("sources", len(record)).
		Msg("Attack sources joined")

	return nil
}

// Stop ends the campaign against target and always restores it online,
// regardless of how many sources were attacking.
func (c *Coordinator) Stop(target netip.Addr) error {
	if _, ok := c.records[target]; !ok {
		return fmt.Errorf("%w: %s", ErrNoActiveAttack, target)
	}

	delete(c.records, target)

	err := c.registry.WithHost(target, func(h *models.Host) error {
		h.Online = true
		return nil
	})
	if err != nil {
		return err
	}

	c.logger.Info().Str("target", target.String()).Msg("Attack stopped, host restored")

	return nil
}

// Tick re-evaluates every active campaign and takes any target with at
// least threshold distinct sources offline, leaving the record intact.
// The transition depends on state, not elapsed time, so back-to-back ticks
// never double-apply it.
func (c *Coordinator) Tick() {
	for target, sources := range c.records {
		if len(sources) < c.threshold {
			continue
		}

		err := c.registry.WithHost(target, func(h *models.Host) error {
			if !h.Online {
				return nil
			}

			h.Online = false

			c.logger.Info().
				Str("target", target.String()).
				Int("sources", len(sources)).
				Msg("Host forced offline by distributed attack")

			return nil
		})
		if err != nil {
			c.logger.Warn().Err(err).Str("target", target.String()).Msg("Attack tick skipped target")
		}
	}
}

// Sources returns how many distinct sources are attacking target, zero when
// no campaign is active.
func (c *Coordinator) Sources(target netip.Addr) int {
	return len(c.records[target])
}

// Active returns the number of in-flight campaigns.
func (c *Coordinator) Active() int {
	return len(c.records)
}
