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

package db

import (
	"context"

	"github.com/nullgrid/vnet/pkg/models"
)

// NopStore is a registry.Store that persists nothing, for tests and
// storeless shards.
type NopStore struct{}

func (NopStore) LoadAll(_ context.Context) ([]*models.Host, error) { return nil, nil }

func (NopStore) Save(_ context.Context, _ *models.Host) error { return nil }
