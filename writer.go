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
	"fmt"

	"github.com/kelpsearch/kelp/index"
)

// Writer is spec §3's index handle: it applies Batches and hands out
// Readers reflecting everything committed so far.
//
// Grounded on bluge/writer.go's Writer, adapted to this module's
// synchronous index.Writer (a Batch call returns only once its segment
// is built, persisted and committed, so there is no async flush to
// wait for and no writer_offline.go equivalent).
type Writer struct {
	config Config
	inner  *index.Writer
}

// OpenWriter opens or creates an index at config's directory.
func OpenWriter(config Config) (*Writer, error) {
	inner, err := index.OpenWriter(config.IndexConfig)
	if err != nil {
		return nil, fmt.Errorf("kelp: opening writer: %w", err)
	}
	return &Writer{config: config, inner: inner}, nil
}

// Insert analyzes doc and adds it in a single-document batch.
func (w *Writer) Insert(doc *Document) error {
	return w.Batch(NewBatch().Insert(doc))
}

// Update analyzes doc, deletes any existing document sharing its _id,
// and adds it, in a single-document batch.
func (w *Writer) Update(doc *Document) error {
	return w.Batch(NewBatch().Update(doc))
}

// Delete removes the document whose _id matches id, in a
// single-operation batch.
func (w *Writer) Delete(id string) error {
	return w.Batch(NewBatch().Delete(id))
}

// Batch applies every insert, update and delete recorded in batch
// atomically.
func (w *Writer) Batch(batch *Batch) error {
	return w.inner.Batch(batch.inner)
}

// Reader opens a point-in-time Reader reflecting every Batch committed
// so far.
func (w *Writer) Reader() (*Reader, error) {
	snapshot, err := w.inner.Reader()
	if err != nil {
		return nil, fmt.Errorf("kelp: opening reader: %w", err)
	}
	return &Reader{config: w.config, snapshot: snapshot}, nil
}

// Close releases the writer's directory and in-memory state. Any
// Readers already opened from it remain valid.
func (w *Writer) Close() error {
	return w.inner.Close()
}
