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

package segment

// VisitField is called once per field present on a Document.
type VisitField func(field Field)

// VisitTerm is called once per distinct term produced for a Field.
type VisitTerm func(term FieldTerm)

// VisitLocation is called once per occurrence of a FieldTerm.
type VisitLocation func(loc Location)

// Document is the writer-facing source contract: what the segment codec's
// writer (phase 1 of spec §4.2) consumes from a caller's in-memory
// document before anything is encoded to bytes.
type Document interface {
	// EachField visits every field set on this document, in the order
	// the caller added them.
	EachField(visit VisitField)
}

// Field is one field's worth of analyzed content plus its storage flags,
// as produced by the caller (typically document.Document.Analyze).
type Field interface {
	Name() string

	// Value is the raw (pre-analysis) field value, kept when Store()
	// is true so it can be returned verbatim by VisitStoredFields.
	Value() []byte

	// Length is the analyzed token count, used for length normalization.
	Length() int

	Store() bool
	IndexDocValues() bool
	IndexVector() bool

	// DocValue is the encoded columnar value for this field, present
	// when IndexDocValues is true.
	DocValue() []byte

	// EachTerm visits every distinct term this field analyzed to.
	EachTerm(visit VisitTerm)
}

// FieldTerm is one distinct term within a Field, with its aggregate
// frequency and per-occurrence Locations.
type FieldTerm interface {
	Term() []byte
	Frequency() int
	Weight() float64

	EachLocation(visit VisitLocation)
}
