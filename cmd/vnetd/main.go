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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/nullgrid/vnet/pkg/addrspace"
	"github.com/nullgrid/vnet/pkg/config"
	"github.com/nullgrid/vnet/pkg/db"
	"github.com/nullgrid/vnet/pkg/engine"
	"github.com/nullgrid/vnet/pkg/logger"
	"github.com/nullgrid/vnet/pkg/registry"
	"github.com/nullgrid/vnet/pkg/worldgen"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to vnetd config file (optional)")
	flag.Parse()

	cfg := config.Default()

	if *configPath != "" {
		if err := config.Load(*configPath, cfg); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	vlog, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store registry.Store = db.NopStore{}

	if cfg.DBPath != "" {
		sqlStore, err := db.NewSQLiteStore(cfg.DBPath, vlog.WithComponent("db"))
		if err != nil {
			return fmt.Errorf("failed to open host store: %w", err)
		}
		defer func() { _ = sqlStore.Close() }()

		store = sqlStore
	}

	reg := registry.New(store, cfg.LedgerCapacity, vlog.WithComponent("registry"))

	loaded, err := reg.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load hosts: %w", err)
	}

	pool := addrspace.New(cfg.PoolSeed, cfg.PoolSize)

	// Addresses already held by loaded hosts must never be reissued.
	for _, addr := range reg.Addrs() {
		pool.Reserve(addr)
	}

	if loaded == 0 {
		worldCfg := worldgen.Config{NPCHosts: cfg.NPCHosts}
		if err := worldgen.Seed(reg, pool, worldCfg, vlog.WithComponent("worldgen")); err != nil {
			return fmt.Errorf("failed to seed world: %w", err)
		}
	}

	eng := engine.New(reg, pool, engine.Config{
		TickInterval:     time.Duration(cfg.TickInterval),
		OfflineThreshold: cfg.OfflineThreshold,
	}, vlog.WithComponent("engine"))

	vlog.Info().Int("hosts", reg.Len()).Msg("World shard ready")

	return eng.Run(ctx)
}
