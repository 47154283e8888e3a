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
	"time"

	"github.com/kelpsearch/kelp/analysis"
	"github.com/kelpsearch/kelp/numeric"
	"github.com/kelpsearch/kelp/segment"
)

// FieldOptions is a bitmask of the indexing behaviors a Field can opt
// into, spec §3's per-field flags (index/store/positions/sortable/
// aggregatable).
//
// Grounded on bluge/field.go's FieldOptions.
type FieldOptions int

const (
	Index FieldOptions = 1 << iota
	Store
	SearchTermPositions
	HighlightMatches
	Sortable
	Aggregatable
)

func (o FieldOptions) hasIndex() bool         { return o&Index != 0 }
func (o FieldOptions) hasStore() bool         { return o&Store != 0 }
func (o FieldOptions) includeLocations() bool { return o&SearchTermPositions != 0 || o&HighlightMatches != 0 }
func (o FieldOptions) indexDocValues() bool   { return o&Sortable != 0 || o&Aggregatable != 0 }

// Field is one field's worth of analyzed content plus its storage
// flags, as produced by a Document before it is handed to a Batch.
//
// Grounded on bluge/field.go's Field interface, adapted to this
// module's segment.Field (no Index()/IncludeLocations() in the writer
// contract itself; a field that isn't indexed just yields no terms
// from EachTerm).
type Field interface {
	segment.Field

	// Analyze runs this field's analyzer, starting token positions at
	// startOffset, and returns the last position reached (so a repeated
	// field name can continue the sequence via PositionIncrementGap).
	Analyze(startOffset int) (lastPos int)

	AnalyzedTokenFrequencies() analysis.TokenFrequencies
	PositionIncrementGap() int
}

// Analyzer is the text => tokens pipeline a TermField runs its value
// through. A nil Analyzer means the field indexes its raw value as a
// single keyword token.
type Analyzer = analysis.Analyzer

// TermField is the concrete Field every constructor in this file
// builds: a name, a raw value, an optional Analyzer, and the
// FieldOptions controlling how the writer treats it.
//
// Grounded on bluge/field.go's TermField.
type TermField struct {
	FieldOptions
	name                 string
	value                []byte
	analyzedLength       int
	analyzedTokenFreqs   analysis.TokenFrequencies
	analyzer             *Analyzer
	positionIncrementGap int
}

var _ Field = (*TermField)(nil)

func (f *TermField) Name() string  { return f.name }
func (f *TermField) Value() []byte { return f.value }
func (f *TermField) Length() int   { return f.analyzedLength }
func (f *TermField) Store() bool   { return f.hasStore() }

func (f *TermField) IndexDocValues() bool { return f.indexDocValues() }
func (f *TermField) IndexVector() bool    { return f.includeLocations() }

// DocValue is the raw field value used as the columnar value for
// sort_by/group_by/aggregations; numeric and date fields store a
// sortable-byte encoding instead (see their constructors).
func (f *TermField) DocValue() []byte { return f.value }

func (f *TermField) AnalyzedTokenFrequencies() analysis.TokenFrequencies { return f.analyzedTokenFreqs }

func (f *TermField) PositionIncrementGap() int { return f.positionIncrementGap }

func (f *TermField) SetPositionIncrementGap(gap int) *TermField {
	f.positionIncrementGap = gap
	return f
}

func (f *TermField) StoreValue() *TermField {
	f.FieldOptions |= Store
	return f
}

func (f *TermField) Sortable() *TermField {
	f.FieldOptions |= Sortable
	return f
}

func (f *TermField) Aggregatable() *TermField {
	f.FieldOptions |= Aggregatable
	return f
}

func (f *TermField) SearchTermPositions() *TermField {
	f.FieldOptions |= SearchTermPositions
	return f
}

func (f *TermField) HighlightMatches() *TermField {
	f.FieldOptions |= HighlightMatches
	return f
}

func (f *TermField) WithAnalyzer(a *Analyzer) *TermField {
	f.analyzer = a
	return f
}

func (f *TermField) EachTerm(visit segment.VisitTerm) {
	if !f.hasIndex() {
		return
	}
	for _, tf := range f.analyzedTokenFreqs {
		visit(tf)
	}
}

// Analyze tokenizes this field's value (via its analyzer, or as a
// single keyword token when none is set) and rolls the result up into
// AnalyzedTokenFrequencies.
func (f *TermField) Analyze(startOffset int) (lastPos int) {
	if !f.hasIndex() {
		return startOffset
	}
	var tokens analysis.TokenStream
	if f.analyzer != nil {
		tokens = f.analyzer.Analyze(f.value)
	} else {
		tokens = analysis.TokenStream{{
			Start: 0, End: len(f.value), Term: f.value, PositionIncr: 1,
		}}
	}
	f.analyzedLength = len(tokens)
	f.analyzedTokenFreqs, lastPos = analysis.TokenFrequency(tokens, f.name, f.includeLocations(), startOffset)
	return lastPos
}

const defaultTextIndexingOptions = Index

// NewKeywordField builds an indexed, unanalyzed field: value is indexed
// as a single term verbatim.
func NewKeywordField(name, value string) *TermField {
	return newTermField(name, []byte(value), nil)
}

// NewTextField builds an indexed field whose value is run through
// analyzer before indexing.
func NewTextField(name, value string, analyzer *Analyzer) *TermField {
	return newTermField(name, []byte(value), analyzer)
}

func newTermField(name string, value []byte, analyzer *Analyzer) *TermField {
	return &TermField{
		FieldOptions:         defaultTextIndexingOptions,
		name:                 name,
		value:                value,
		analyzer:             analyzer,
		positionIncrementGap: 100,
	}
}

const defaultNumericIndexingOptions = Index | Sortable | Aggregatable

const defaultNumericPrecisionStep uint = 4

// numericAnalyzer indexes a numeric value at full precision plus a
// ladder of shift-truncated prefix-coded terms (numeric.
// ShiftPrefixCodedInt64), letting NumericRange queries bound their
// dictionary scan to whichever precision level covers the widest span
// of the query range. Grounded on bluge/field.go's numericAnalyzer /
// addShiftTokens, rebuilt against this module's numeric package.
type numericAnalyzer struct {
	original int64
	shiftBy  uint
}

func (n *numericAnalyzer) Analyze([]byte) analysis.TokenStream {
	tokens := analysis.TokenStream{{
		Start: 0, End: 8, Term: numeric.MustNewPrefixCodedInt64(n.original, 0), PositionIncr: 1,
	}}
	for shift := n.shiftBy; shift < 64; shift += n.shiftBy {
		encoded, err := numeric.ShiftPrefixCodedInt64(n.original, shift)
		if err != nil {
			break
		}
		tokens = append(tokens, &analysis.Token{Start: 0, End: len(encoded), Term: encoded})
	}
	return tokens
}

// NewNumericField builds an indexed, sortable, aggregatable field whose
// DocValue is a sortable-byte encoding of number (spec §3's numeric
// field), shift-prefix-coded for NumericRange queries.
func NewNumericField(name string, number float64) *TermField {
	numberInt64 := numeric.Float64ToInt64(number)
	return &TermField{
		FieldOptions: defaultNumericIndexingOptions,
		name:         name,
		value:        numeric.Float64ToSortableBytes(number),
		analyzer: &Analyzer{Tokenizer: numericTokenizer{
			&numericAnalyzer{original: numberInt64, shiftBy: defaultNumericPrecisionStep},
		}},
		positionIncrementGap: 100,
	}
}

const defaultDateTimeIndexingOptions = Index | Sortable | Aggregatable

const defaultDateTimePrecisionStep uint = 4

// NewDateTimeField builds an indexed, sortable, aggregatable field
// encoding dt to nanosecond-since-epoch precision, spec §3's datetime
// field.
func NewDateTimeField(name string, dt time.Time) *TermField {
	dtInt64 := dt.UnixNano()
	return &TermField{
		FieldOptions: defaultDateTimeIndexingOptions,
		name:         name,
		value:        numeric.DatetimeToSortableBytes(dt),
		analyzer: &Analyzer{Tokenizer: numericTokenizer{
			&numericAnalyzer{original: dtInt64, shiftBy: defaultDateTimePrecisionStep},
		}},
		positionIncrementGap: 100,
	}
}

// numericTokenizer adapts a *numericAnalyzer (which ignores its input,
// deriving tokens from the int64 it already carries) to the
// analysis.Tokenizer interface so it can be the Tokenizer half of an
// Analyzer; there are no CharFilters/TokenFilters to run around it.
type numericTokenizer struct {
	inner *numericAnalyzer
}

func (t numericTokenizer) Tokenize(input []byte) analysis.TokenStream { return t.inner.Analyze(input) }

// NewStoredOnlyField builds a field that is stored but not indexed:
// VisitStoredFields returns it verbatim, but it never matches a query.
func NewStoredOnlyField(name string, value []byte) *TermField {
	return &TermField{FieldOptions: Store, name: name, value: value}
}

const defaultCompositeIndexingOptions = Index

// FieldConsumer is implemented by fields (CompositeField) that fold
// another field's analyzed content into their own, e.g. an "_all"
// field aggregating every other field's terms.
type FieldConsumer interface {
	Consume(Field)
}

// CompositeField is spec §3's composite/"_all" field: it carries no
// value of its own, instead accumulating the AnalyzedTokenFrequencies
// of every other field on the document that Consume is called with.
//
// Grounded on bluge/field.go's CompositeField.
type CompositeField struct {
	*TermField
	includedFields map[string]bool
	excludedFields map[string]bool
	defaultInclude bool
}

// NewCompositeFieldIncluding builds a composite field gathering only
// the named fields.
func NewCompositeFieldIncluding(name string, including []string) *CompositeField {
	return newCompositeField(name, false, including, nil)
}

// NewCompositeFieldExcluding builds a composite field gathering every
// field except the named ones.
func NewCompositeFieldExcluding(name string, excluding []string) *CompositeField {
	return newCompositeField(name, true, nil, excluding)
}

func newCompositeField(name string, defaultInclude bool, include, exclude []string) *CompositeField {
	cf := &CompositeField{
		TermField: &TermField{
			FieldOptions:       defaultCompositeIndexingOptions,
			name:               name,
			analyzedTokenFreqs: make(analysis.TokenFrequencies),
		},
		defaultInclude: defaultInclude,
		includedFields: make(map[string]bool, len(include)),
		excludedFields: make(map[string]bool, len(exclude)),
	}
	for _, i := range include {
		cf.includedFields[i] = true
	}
	for _, e := range exclude {
		cf.excludedFields[e] = true
	}
	return cf
}

func (c *CompositeField) includesField(field string) bool {
	should := c.defaultInclude
	if c.includedFields[field] {
		should = true
	}
	if c.excludedFields[field] {
		should = false
	}
	return should
}

// Consume folds field's analyzed terms into this composite field's own,
// if field passes this composite's include/exclude rules.
func (c *CompositeField) Consume(field Field) {
	if !c.includesField(field.Name()) {
		return
	}
	c.analyzedLength += field.Length()
	c.analyzedTokenFreqs.MergeAll(c.name, field.AnalyzedTokenFrequencies())
}

// Analyze is a no-op: a CompositeField's content comes entirely from
// Consume, driven by Document.Analyze after every plain field has run.
func (c *CompositeField) Analyze(int) int { return 0 }
