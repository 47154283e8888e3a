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

package kelp

import (
	"context"
	"fmt"

	"github.com/kelpsearch/kelp/index"
	"github.com/kelpsearch/kelp/search"
)

// Reader is a point-in-time view of an index, spec §5's search entry
// point: build a Query, wrap it in a SearchRequest, and run it here.
//
// Grounded on bluge/reader.go's Reader, adapted to this module's
// index.Snapshot, which already implements search.Reader directly (no
// segment-api adapter needed) and carries no Backup/WriteTo-facing state
// this package exposes on purpose -- see DESIGN.md for why Backup was
// dropped.
type Reader struct {
	config   Config
	snapshot *index.Snapshot
}

// OpenReader opens a standalone reader over config's directory: it opens
// a Writer only long enough to take its current snapshot, then closes
// it, so no Writer stays open. Most callers should prefer Writer.Reader,
// which reflects in-process writes with no extra I/O.
func OpenReader(config Config) (*Reader, error) {
	w, err := OpenWriter(config)
	if err != nil {
		return nil, err
	}
	r, err := w.Reader()
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Count returns the number of live documents visible to this reader.
func (r *Reader) Count() (uint64, error) { return r.snapshot.Count() }

// Fields lists every field name with at least one indexed term.
func (r *Reader) Fields() ([]string, error) { return r.snapshot.Fields() }

// VisitStoredFields calls visitor once per stored field on the document
// numbered number.
func (r *Reader) VisitStoredFields(number uint64, visitor func(field string, value []byte) bool) error {
	return r.snapshot.VisitStoredFields(number, visitor)
}

// Search runs req's Query against this reader and returns its matches
// through req's Collector, spec §5.3's fixed collector wrapper pipeline.
func (r *Reader) Search(ctx context.Context, req SearchRequest) (search.DocumentMatchIterator, error) {
	coll := req.Collector()
	searcher, err := req.Searcher(r.snapshot, r.config)
	if err != nil {
		return nil, fmt.Errorf("kelp: building searcher: %w", err)
	}

	dmItr, err := coll.Collect(ctx, req.Aggregations(), searcher)
	if err != nil {
		return nil, fmt.Errorf("kelp: collecting matches: %w", err)
	}
	return dmItr, nil
}

// Close releases this reader's resources. The underlying index.Snapshot
// needs no explicit teardown of its own; Close exists for symmetry with
// Writer.Close and to absorb a future need without an API break.
func (r *Reader) Close() error { return nil }
