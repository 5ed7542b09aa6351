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

package registry

import (
	"context"

	"github.com/nullgrid/vnet/pkg/models"
)

// Store persists hosts. The registry stays correct when the store is nil,
// absent or lagging: saves are fired after a mutation commits and never
// awaited inside a verb.
type Store interface {
	LoadAll(ctx context.Context) ([]*models.Host, error)
	Save(ctx context.Context, host *models.Host) error
}
