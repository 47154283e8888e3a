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

// Package kelp is the public entry point of spec §8's end-to-end
// scenarios: build Documents out of Fields, index them through a
// Writer, and run Query trees against a Reader. It is a thin
// orchestration layer over the already-complete index/segment stack --
// it owns no storage or matching logic of its own.
package kelp

import "github.com/kelpsearch/kelp/segment"

const idField = "_id"

// Document is an ordered list of Fields, spec §3's document: the
// in-memory source a Writer's Batch indexes. It implements
// segment.Document directly so it can be passed straight to
// index.Batch.Insert/Update.
//
// Grounded on bluge/document.go's Document.
type Document struct {
	fields []Field
}

var _ segment.Document = (*Document)(nil)

// NewDocument builds a Document carrying a stored, sortable keyword
// _id field, spec §3's implicit identifier field.
func NewDocument(id string) *Document {
	return &Document{fields: []Field{
		NewKeywordField(idField, id).StoreValue().Sortable(),
	}}
}

// AddField appends f to the document and returns the document, so
// calls can be chained.
func (d *Document) AddField(f Field) *Document {
	d.fields = append(d.fields, f)
	return d
}

// ID returns the document's _id field value, set by NewDocument.
func (d *Document) ID() segment.Term { return identifier(d.fields[0].Value()) }

// Analyze runs every field's Analyze, in insertion order, continuing
// each repeated field name's token positions across instances by
// PositionIncrementGap, then feeds every analyzed field into any
// FieldConsumer (e.g. a CompositeField "_all" field) present on the
// document. Must be called once, after every AddField and before the
// document is handed to a Batch.
//
// Grounded on bluge/document.go's Document.Analyze.
func (d *Document) Analyze() {
	fieldOffsets := map[string]int{}
	for _, field := range d.fields {
		offset := fieldOffsets[field.Name()]
		if offset > 0 {
			offset += field.PositionIncrementGap()
		}
		fieldOffsets[field.Name()] = field.Analyze(offset)

		for _, other := range d.fields {
			if other == field {
				continue
			}
			if consumer, ok := other.(FieldConsumer); ok {
				consumer.Consume(field)
			}
		}
	}
}

// EachField implements segment.Document.
func (d *Document) EachField(visit segment.VisitField) {
	for _, field := range d.fields {
		visit(field)
	}
}

// identifier is a segment.Term naming the implicit _id field.
type identifier []byte

func (identifier) Field() string   { return idField }
func (id identifier) Term() []byte { return []byte(id) }

// Identifier builds a segment.Term matching a document's _id field,
// for Batch.Update/Delete and for Term queries against _id.
func Identifier(id string) segment.Term { return identifier(id) }
