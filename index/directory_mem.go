// Copyright 2024 The Kelp Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package index

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
)

// InMemoryDirectory keeps segments and snapshot TOCs in memory only,
// ported from bluge/index/directory_mem.go. Used for tests and for
// callers building a throwaway index that never needs to survive a
// process restart.
type InMemoryDirectory struct {
	mu        sync.RWMutex
	segments  map[uint64]*bytes.Buffer
	snapshots map[uint64]*bytes.Buffer
	locked    bool
}

func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{
		segments:  make(map[uint64]*bytes.Buffer),
		snapshots: make(map[uint64]*bytes.Buffer),
	}
}

func (d *InMemoryDirectory) Setup(readOnly bool) error { return nil }

func (d *InMemoryDirectory) List(kind string) ([]uint64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var rv uint64Slice
	switch kind {
	case ItemKindSegment:
		for id := range d.segments {
			rv = append(rv, id)
		}
	case ItemKindSnapshot:
		for id := range d.snapshots {
			rv = append(rv, id)
		}
	}
	sort.Sort(sort.Reverse(rv))
	return rv, nil
}

func (d *InMemoryDirectory) Load(kind string, id uint64) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m := d.bucket(kind)
	if buf, ok := m[id]; ok {
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("index: %s %d not found", kind, id)
}

func (d *InMemoryDirectory) Persist(kind string, id uint64, w WriterTo, closeCh chan struct{}) error {
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf, closeCh); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bucket(kind)[id] = &buf
	return nil
}

func (d *InMemoryDirectory) Remove(kind string, id uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.bucket(kind), id)
	return nil
}

func (d *InMemoryDirectory) bucket(kind string) map[uint64]*bytes.Buffer {
	if kind == ItemKindSnapshot {
		return d.snapshots
	}
	return d.segments
}

func (d *InMemoryDirectory) Stats() (numItems uint64, numBytes uint64) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, b := range d.segments {
		numItems++
		numBytes += uint64(b.Len())
	}
	for _, b := range d.snapshots {
		numItems++
		numBytes += uint64(b.Len())
	}
	return numItems, numBytes
}

func (d *InMemoryDirectory) Sync() error { return nil }

func (d *InMemoryDirectory) Lock() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.locked {
		return fmt.Errorf("index: directory already locked")
	}
	d.locked = true
	return nil
}

func (d *InMemoryDirectory) Unlock() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.locked = false
	return nil
}

var _ Directory = (*InMemoryDirectory)(nil)
