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

import "github.com/kelpsearch/kelp/index"

// Batch groups document inserts, updates and delete-by-id operations
// applied atomically by Writer.Batch, spec §3's batch. A thin wrapper
// over index.Batch: this package's only addition is running Analyze on
// every Document as it's added, so callers never have to remember to.
type Batch struct {
	inner *index.Batch
}

// NewBatch builds an empty Batch.
func NewBatch() *Batch {
	return &Batch{inner: index.NewBatch()}
}

// Insert analyzes doc and adds it as a new document.
func (b *Batch) Insert(doc *Document) *Batch {
	doc.Analyze()
	b.inner.Insert(doc)
	return b
}

// Update analyzes doc and adds it as a new document, first deleting any
// prior document(s) whose _id matches doc's.
func (b *Batch) Update(doc *Document) *Batch {
	doc.Analyze()
	b.inner.Update(doc.ID(), doc)
	return b
}

// Delete records id as a delete-by-id operation.
func (b *Batch) Delete(id string) *Batch {
	b.inner.Delete(Identifier(id))
	return b
}

// SetPersistedCallback registers f to run once this batch's writes are
// durable.
func (b *Batch) SetPersistedCallback(f func(error)) *Batch {
	b.inner.SetPersistedCallback(f)
	return b
}
