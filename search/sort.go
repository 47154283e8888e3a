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

import "bytes"

// SortField is one key in a compound sort_by(facet) collector wrapper
// (spec §4.5): sort ascending by a document's column value for Field,
// scoring docs missing the field as sorting last, whether or not
// Descending is set.
//
// Not ported from a retrieved file: bluge's sort order lives in its root
// package (bluge.SortOrder / bluge.Field), which the pack never
// retrieved — only search's consumption of a generic SortOrder survived
// (see collector/topn.go's hc.sort.Compare/Compute/Fields calls). This
// type is shaped to satisfy exactly that consumption.
type SortField struct {
	Field      string
	Descending bool
}

// SortOrder is a compound sort key: score (when Fields is empty) or an
// ordered list of column fields.
type SortOrder []SortField

// ScoreSortOrder sorts by descending score, the default when no
// sort_by(facet) wrapper is present.
var ScoreSortOrder = SortOrder(nil)

// Fields lists the column fields a DocumentMatch must load before
// Compute can read them.
func (so SortOrder) Fields() []string {
	if len(so) == 0 {
		return nil
	}
	rv := make([]string, len(so))
	for i, f := range so {
		rv[i] = f.Field
	}
	return rv
}

// Compute fills dm.SortValue from dm.Fields per this order's keys, or
// leaves it nil when sorting by score.
func (so SortOrder) Compute(dm *DocumentMatch) {
	if len(so) == 0 {
		return
	}
	dm.SortValue = make([][]byte, len(so))
	for i, f := range so {
		dm.SortValue[i] = dm.Fields[f.Field]
	}
}

// Compare orders i before j. With no sort fields it compares by
// descending score, falling back to ascending HitNumber (insertion
// order) to break exact ties deterministically.
func (so SortOrder) Compare(i, j *DocumentMatch) int {
	if len(so) == 0 {
		switch {
		case i.Score > j.Score:
			return -1
		case i.Score < j.Score:
			return 1
		default:
			return compareInt(i.HitNumber, j.HitNumber)
		}
	}
	for k, f := range so {
		var a, b []byte
		if k < len(i.SortValue) {
			a = i.SortValue[k]
		}
		if k < len(j.SortValue) {
			b = j.SortValue[k]
		}
		c := compareMissingLast(a, b, f.Descending)
		if c != 0 {
			return c
		}
	}
	return compareInt(i.HitNumber, j.HitNumber)
}

// compareMissingLast treats a nil (field absent on that doc) as sorting
// after any present value, regardless of direction; only the relative
// order of two present values flips with descending.
func compareMissingLast(a, b []byte, descending bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		c := bytes.Compare(a, b)
		if descending {
			c = -c
		}
		return c
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
