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

package search

import (
	"math"
	"time"

	"github.com/kelpsearch/kelp/numeric"
)

// TextValueSource reads one column value per hit, used by sort_by and
// group_by (spec §4.5's facet arguments).
type TextValueSource interface {
	Fields() []string
	Value(match *DocumentMatch) []byte
}

// TextValuesSource reads every column value per hit, used by aggregations
// that bucket on a (possibly multi-valued) field.
type TextValuesSource interface {
	Fields() []string
	Values(match *DocumentMatch) [][]byte
}

// NumericValueSource reads one decoded numeric column value per hit.
type NumericValueSource interface {
	Fields() []string
	Number(match *DocumentMatch) float64
}

// NumericValuesSource reads every decoded numeric column value per hit,
// used by sum/min/max/avg metric aggregations.
type NumericValuesSource interface {
	Fields() []string
	Numbers(match *DocumentMatch) []float64
}

// DateValuesSource reads every decoded date column value per hit.
type DateValuesSource interface {
	Fields() []string
	Dates(match *DocumentMatch) []time.Time
}

// FieldSource reads directly from a DocumentMatch's loaded column fields.
// Not ported verbatim from the teacher's search/source.go: that file's
// FieldSource reads through a match.DocValues(field) multi-value getter
// backed by bluge_segment_api's docvalues stack, which this module's
// DocumentMatch.Fields (one decoded value per field, see search.go) does
// not carry. Geo sources are dropped entirely, per SPEC_FULL.md's
// Non-goals (no geo query type in this module).
type FieldSource string

// Field names a column by field name for a sort_by/aggregation argument.
func Field(field string) FieldSource {
	return FieldSource(field)
}

func (f FieldSource) Fields() []string { return []string{string(f)} }

func (f FieldSource) Value(match *DocumentMatch) []byte {
	return match.Fields[string(f)]
}

func (f FieldSource) Values(match *DocumentMatch) [][]byte {
	if v, ok := match.Fields[string(f)]; ok {
		return [][]byte{v}
	}
	return nil
}

func (f FieldSource) Number(match *DocumentMatch) float64 {
	return firstNumber(f.Numbers(match))
}

func (f FieldSource) Numbers(match *DocumentMatch) []float64 {
	var rv []float64
	for _, term := range f.Values(match) {
		if v, ok := decodeFullPrecision(term); ok {
			rv = append(rv, numeric.Int64ToFloat64(v))
		}
	}
	return rv
}

// decodeFullPrecision decodes a ShiftPrefixCodedInt64 term, succeeding
// only for the shift=0 (full precision) encoding: coarser tiers exist
// only to make range scans cheap and don't carry the original value.
func decodeFullPrecision(term []byte) (int64, bool) {
	shift, err := numeric.PrefixCodedShift(term)
	if err != nil || shift != 0 || len(term) != 9 {
		return 0, false
	}
	v, err := numeric.SortableBytesToInt64(term[1:])
	if err != nil {
		return 0, false
	}
	return v, true
}

func (f FieldSource) Date(match *DocumentMatch) time.Time {
	return firstDate(f.Dates(match))
}

func (f FieldSource) Dates(match *DocumentMatch) []time.Time {
	var rv []time.Time
	for _, n := range f.Numbers(match) {
		rv = append(rv, time.Unix(0, int64(n)))
	}
	return rv
}

// ScoreSource exposes a hit's own Score as a sortable/aggregatable
// numeric source, e.g. for a weighted_by(score) collector wrapper.
type ScoreSource struct{}

func DocumentScore() *ScoreSource { return &ScoreSource{} }

func (n *ScoreSource) Fields() []string { return nil }

func (n *ScoreSource) Value(d *DocumentMatch) []byte {
	return numeric.MustNewPrefixCodedInt64(numeric.Float64ToInt64(d.Score), 0)
}

func (n *ScoreSource) Values(d *DocumentMatch) [][]byte {
	return [][]byte{n.Value(d)}
}

func (n *ScoreSource) Number(d *DocumentMatch) float64 { return d.Score }

func (n *ScoreSource) Numbers(d *DocumentMatch) []float64 { return []float64{d.Score} }

// MissingTextValueSource substitutes replacement when primary has no
// value for a hit, e.g. sort_by(facet, missing="_last"/fallback value).
type MissingTextValueSource struct {
	primary, replacement TextValueSource
}

func MissingTextValue(primary, replacement TextValueSource) *MissingTextValueSource {
	return &MissingTextValueSource{primary: primary, replacement: replacement}
}

func (f *MissingTextValueSource) Fields() []string {
	return append(f.primary.Fields(), f.replacement.Fields()...)
}

func (f *MissingTextValueSource) Value(match *DocumentMatch) []byte {
	if v := f.primary.Value(match); v != nil {
		return v
	}
	return f.replacement.Value(match)
}

// MissingNumericSource substitutes replacement's values when primary
// yields none for a hit.
type MissingNumericSource struct {
	primary, replacement NumericValuesSource
}

func MissingNumeric(primary, replacement NumericValuesSource) *MissingNumericSource {
	return &MissingNumericSource{primary: primary, replacement: replacement}
}

func (f *MissingNumericSource) Fields() []string {
	return append(f.primary.Fields(), f.replacement.Fields()...)
}

func (f *MissingNumericSource) Numbers(match *DocumentMatch) []float64 {
	if v := f.primary.Numbers(match); len(v) > 0 {
		return v
	}
	return f.replacement.Numbers(match)
}

func firstNumber(sourceValues []float64) float64 {
	if len(sourceValues) > 0 {
		return sourceValues[0]
	}
	return math.NaN()
}

func firstDate(sourceValues []time.Time) time.Time {
	if len(sourceValues) > 0 {
		return sourceValues[0]
	}
	return time.Time{}
}
