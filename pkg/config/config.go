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

// Package config loads vnetd configuration from JSON files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nullgrid/vnet/pkg/logger"
)

var ErrInvalidDuration = errors.New("invalid duration")

// Duration is a wrapper around time.Duration for JSON unmarshaling: accepts
// either a duration string ("30s") or nanoseconds as a number.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}

		*d = Duration(tmp)
	default:
		return ErrInvalidDuration
	}

	return nil
}

// Config is the vnetd daemon configuration. Gameplay constants that game
// design may retune per world (offline threshold, tick interval, ledger
// capacity) live here; zero values keep the reference defaults.
type Config struct {
	Logging          *logger.Config `json:"logging,omitempty"`
	TickInterval     Duration       `json:"tick_interval"`
	OfflineThreshold int            `json:"offline_threshold"`
	LedgerCapacity   int            `json:"ledger_capacity"`
	PoolSeed         int64          `json:"pool_seed"`
	PoolSize         int            `json:"pool_size"`
	NPCHosts         int            `json:"npc_hosts"`
	DBPath           string         `json:"db_path"`
}

// Default returns the configuration a shard runs with when no file is given.
func Default() *Config {
	return &Config{
		Logging:      logger.DefaultConfig(),
		TickInterval: Duration(time.Second),
		PoolSeed:     1,
	}
}

// Load reads and parses the JSON config at path into cfg.
func Load(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Logging == nil {
		cfg.Logging = logger.DefaultConfig()
	}

	if cfg.TickInterval <= 0 {
		cfg.TickInterval = Duration(time.Second)
	}

	return nil
}
