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

// Package ledger implements the bounded, player-editable security log kept
// by every host. Entries are evicted oldest first by insertion order once
// the ledger is full; hiding and editing never remove an entry.
package ledger

import (
	"errors"
	"net/netip"
	"time"

	"github.com/google/uuid"
)

// DefaultCapacity is the stock log buffer size for a host.
const DefaultCapacity = 100

var ErrEntryNotFound = errors.New("log entry not found")

// Action identifies what kind of event a log entry records.
type Action string

const (
	ActionLogin    Action = "login"
	ActionLogout   Action = "logout"
	ActionDownload Action = "download"
	ActionUpload   Action = "upload"
	ActionDelete   Action = "delete"
	ActionInstall  Action = "install"
	ActionCrack    Action = "crack"
	ActionScan     Action = "scan"
	ActionDDoS     Action = "ddos"
	ActionTransfer Action = "transfer"
)

// Custom returns a free-form action outside the closed set.
func Custom(name string) Action {
	return Action(name)
}

// Entry is one security-relevant event recorded at a host. The source is an
// address, never a host handle, so entries stay valid across host mutation.
type Entry struct {
	ID      uuid.UUID  `json:"id"`
	Time    time.Time  `json:"time"`
	Source  netip.Addr `json:"source"`
	Action  Action     `json:"action"`
	Message string     `json:"message"`
	Hidden  bool       `json:"hidden"`
	Edited  bool       `json:"edited"`
}

// NewEntry builds an entry stamped with a fresh ID and the current time.
func NewEntry(source netip.Addr, action Action, message string) Entry {
	return Entry{
		ID:      uuid.New(),
		Time:    time.Now(),
		Source:  source,
		Action:  action,
		Message: message,
	}
}

// Ledger is a fixed-capacity FIFO of log entries.
type Ledger struct {
	capacity int
	entries  []Entry
}

// New creates an empty ledger. A non-positive capacity falls back to
// DefaultCapacity.
func New(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Ledger{
		capacity: capacity,
		entries:  make([]Entry, 0, capacity),
	}
}

// Restore rebuilds a ledger from previously persisted entries, keeping the
// most recent ones when more than capacity are supplied.
func Restore(capacity int, entries []Entry) *Ledger {
	l := New(capacity)

	if len(entries) > l.capacity {
		entries = entries[len(entries)-l.capacity:]
	}

	l.entries = append(l.entries, entries...)

	return l
}

// Append records an entry, evicting exactly the single oldest entry when the
// ledger is already full.
func (l *Ledger) Append(entry Entry) {
	if len(l.entries) >= l.capacity {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:len(l.entries)-1]
	}

	l.entries = append(l.entries, entry)
}

// Hide marks the entry as hidden. Hidden entries are excluded from normal
// listings but persist until evicted. Hiding twice is a no-op.
func (l *Ledger) Hide(id uuid.UUID) error {
	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries[i].Hidden = true
			return nil
		}
	}

	return ErrEntryNotFound
}

// Edit rewrites the entry's message, keeping its ID and action, and marks it
// edited.
func (l *Ledger) Edit(id uuid.UUID, message string) error {
	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries[i].Message = message
			l.entries[i].Edited = true

			return nil
		}
	}

	return ErrEntryNotFound
}

// Clear removes every entry.
func (l *Ledger) Clear() {
	l.entries = l.entries[:0]
}

// List returns entries in append order. Hidden entries are included only
// when includeHidden is set. The returned slice is a copy.
func (l *Ledger) List(includeHidden bool) []Entry {
	out := make([]Entry, 0, len(l.entries))

	for i := range l.entries {
		if l.entries[i].Hidden && !includeHidden {
			continue
		}

		out = append(out, l.entries[i])
	}

	return out
}

// Len returns the number of stored entries, hidden ones included.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Capacity returns the maximum number of entries the ledger holds.
func (l *Ledger) Capacity() int {
	return l.capacity
}

// Clone returns an independent copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	return Restore(l.capacity, l.entries)
}
