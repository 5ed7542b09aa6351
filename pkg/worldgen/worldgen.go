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

// Package worldgen seeds a fresh world shard with its initial hosts: the
// well-known world servers at pinned addresses plus a population of NPC
// hosts drawn from the shard's address pool. Given the same pool seed the
// result is fully deterministic.
package worldgen

import (
	"fmt"
	"net/netip"

	"github.com/google/uuid"

	"github.com/nullgrid/vnet/pkg/addrspace"
	"github.com/nullgrid/vnet/pkg/logger"
	"github.com/nullgrid/vnet/pkg/models"
	"github.com/nullgrid/vnet/pkg/registry"
)

// DefaultNPCHosts is the stock NPC population for a new shard.
const DefaultNPCHosts = 50

// Config controls world bootstrap.
type Config struct {
	NPCHosts int `json:"npc_hosts"`
}

// wellKnown pins the world servers every shard starts with. All addresses
// are public so they match what the address pool would generate.
var wellKnown = []struct {
	addr     string
	category models.HostCategory
	name     string
}{
	{"1.2.3.4", models.CategoryLawEnforcement, "fbi.gov"},
	{"8.8.8.8", models.CategoryISP, "isp.net"},
	{"9.9.9.9", models.CategoryBank, "firstbank.com"},
	{"20.20.20.20", models.CategoryUniversity, "university.edu"},
	{"30.30.30.30", models.CategoryDirectory, "whois.net"},
	{"40.40.40.40", models.CategoryDownloadCenter, "downloads.com"},
	{"50.50.50.50", models.CategoryNews, "worldnews.com"},
}

// Seed populates an empty registry. World hosts are owned by uuid.Nil.
func Seed(reg *registry.HostRegistry, pool *addrspace.Pool, cfg Config, log logger.Logger) error {
	npcs := cfg.NPCHosts
	if npcs <= 0 {
		npcs = DefaultNPCHosts
	}

	for _, w := range wellKnown {
		addr := netip.MustParseAddr(w.addr)
		pool.Reserve(addr)

		if _, err := reg.Create(addr, w.category, uuid.Nil, w.name); err != nil {
			return fmt.Errorf("seed world host %s: %w", w.name, err)
		}
	}

	for i := 1; i <= npcs; i++ {
		addr, err := pool.Allocate()
		if err != nil {
			return fmt.Errorf("allocate npc address: %w", err)
		}

		name := fmt.Sprintf("npc%d.local", i)

		if _, err := reg.Create(addr, models.CategoryNPC, uuid.Nil, name); err != nil {
			return fmt.Errorf("seed npc host %s: %w", name, err)
		}
	}

	log.Info().
		Int("world_hosts", len(wellKnown)).
		Int("npc_hosts", npcs).
		Msg("Seeded world shard")

	return nil
}

// WellKnownCount returns how many pinned world hosts Seed creates.
func WellKnownCount() int {
	return len(wellKnown)
}
