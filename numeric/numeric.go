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

// Package numeric implements the sortable big-endian encodings spec §3
// requires of numeric (int/float/datetime) fields: byte-lexicographic
// order on the encoded term bytes must agree with numeric order on the
// original values, so a NumericRange query can be answered as a plain
// term-dictionary range scan.
package numeric

import (
	"fmt"
	"math"
	"time"
)

// Float64ToInt64 maps a float64 onto an int64 such that int64 ordering
// matches float64 ordering, including across the zero and sign boundary:
// for non-negative floats the IEEE-754 bit pattern already sorts
// correctly, so only the sign bit needs flipping; negative floats sort
// in reverse bit order, so every bit is flipped.
func Float64ToInt64(v float64) int64 {
	bits := int64(math.Float64bits(v))
	if bits < 0 {
		bits ^= 0x7fffffffffffffff
	}
	return bits
}

// Int64ToFloat64 is the inverse of Float64ToInt64.
func Int64ToFloat64(in int64) float64 {
	if in < 0 {
		in ^= 0x7fffffffffffffff
	}
	return math.Float64frombits(uint64(in))
}

// Int64ToSortableBytes encodes v as 8 sortable big-endian bytes: XOR the
// sign bit so negative numbers sort before positive ones under plain
// byte-lexicographic comparison.
func Int64ToSortableBytes(v int64) []byte {
	u := uint64(v) ^ (1 << 63)
	out := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		out[i] = byte(u)
		u >>= 8
	}
	return out
}

// SortableBytesToInt64 is the inverse of Int64ToSortableBytes.
func SortableBytesToInt64(b []byte) (int64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("numeric: sortable int64 must be 8 bytes, got %d", len(b))
	}
	var u uint64
	for i := 0; i < 8; i++ {
		u = u<<8 | uint64(b[i])
	}
	return int64(u ^ (1 << 63)), nil
}

// Float64ToSortableBytes encodes v (via Float64ToInt64) as 8 sortable bytes.
func Float64ToSortableBytes(v float64) []byte {
	return Int64ToSortableBytes(Float64ToInt64(v))
}

// SortableBytesToFloat64 is the inverse of Float64ToSortableBytes.
func SortableBytesToFloat64(b []byte) (float64, error) {
	i, err := SortableBytesToInt64(b)
	if err != nil {
		return 0, err
	}
	return Int64ToFloat64(i), nil
}

// DatetimeToSortableBytes encodes t as sortable bytes keyed on UnixNano,
// satisfying spec §3's "datetime encoded to sortable big-endian bytes".
func DatetimeToSortableBytes(t time.Time) []byte {
	return Int64ToSortableBytes(t.UnixNano())
}

// SortableBytesToDatetime is the inverse of DatetimeToSortableBytes.
func SortableBytesToDatetime(b []byte) (time.Time, error) {
	nanos, err := SortableBytesToInt64(b)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, nanos).UTC(), nil
}

// ShiftPrefixCodedInt64 encodes v with its low `shift` bits masked to a
// fixed placeholder, preceded by a one-byte shift marker. This is the
// trie-style encoding used for multi-precision numeric range queries (see
// search/searcher's numeric range matcher): terms sharing a coarse
// `shift` prefix can be enumerated directly instead of requiring one term
// per distinct value in the full-precision dictionary.
func ShiftPrefixCodedInt64(v int64, shift uint) ([]byte, error) {
	if shift > 63 {
		return nil, fmt.Errorf("numeric: shift %d exceeds 63", shift)
	}
	shifted := v >> shift
	u := uint64(shifted) ^ (1 << 63)
	out := make([]byte, 9)
	out[0] = byte(shift)
	for i := 8; i >= 1; i-- {
		out[i] = byte(u)
		u >>= 8
	}
	return out, nil
}

// MustNewPrefixCodedInt64 is ShiftPrefixCodedInt64 without an error return,
// for call sites constructing range bounds from already-validated shifts.
func MustNewPrefixCodedInt64(v int64, shift uint) []byte {
	b, err := ShiftPrefixCodedInt64(v, shift)
	if err != nil {
		panic(err)
	}
	return b
}

// PrefixCodedShift extracts the shift marker from a term produced by
// ShiftPrefixCodedInt64, so range enumeration can skip terms encoded at a
// coarser or finer precision than the one being scanned.
func PrefixCodedShift(term []byte) (uint, error) {
	if len(term) == 0 {
		return 0, fmt.Errorf("numeric: empty prefix-coded term")
	}
	return uint(term[0]), nil
}
