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
	"github.com/RoaringBitmap/roaring"

	"github.com/kelpsearch/kelp/segment"
)

// SegmentSnapshot is the read-only public view of one segment within a
// Snapshot: its id and its current deletion bitmap.
type SegmentSnapshot interface {
	ID() uint64
	Deleted() *roaring.Bitmap
}

// segmentSnapshot pairs an immutable segment.Segment with the mutable
// (but itself never-in-place-edited; replaced wholesale) deletion bitmap
// tracking which of its local doc numbers have since been superseded or
// deleted. Ported from bluge/index/segment.go, dropping Close() (this
// codec's segments hold no file handles once loaded into memory — see
// segment/kelpfmt's DESIGN.md entry on eager decode) and the unused
// `creator` field.
type segmentSnapshot struct {
	id             uint64
	segment        segment.Segment
	deleted        *roaring.Bitmap
	segmentType    string
	segmentVersion uint32
}

func (s *segmentSnapshot) Segment() segment.Segment { return s.segment }
func (s *segmentSnapshot) Deleted() *roaring.Bitmap  { return s.deleted }
func (s *segmentSnapshot) ID() uint64                { return s.id }

func (s *segmentSnapshot) FullSize() int64 { return int64(s.segment.Count()) }
func (s *segmentSnapshot) LiveSize() int64 { return int64(s.Count()) }

func (s *segmentSnapshot) VisitDocument(num uint64, visitor segment.StoredFieldVisitor) error {
	return s.segment.VisitStoredFields(num, visitor)
}

// Count returns the number of live (non-deleted) documents.
func (s *segmentSnapshot) Count() uint64 {
	rv := s.segment.Count()
	if s.deleted != nil {
		rv -= s.deleted.GetCardinality()
	}
	return rv
}

// DocNumbersLive returns a bitmap of all local doc numbers not deleted.
func (s *segmentSnapshot) DocNumbersLive() *roaring.Bitmap {
	rv := roaring.NewBitmap()
	rv.AddRange(0, s.segment.Count())
	if s.deleted != nil {
		rv.AndNot(s.deleted)
	}
	return rv
}

func (s *segmentSnapshot) Fields() []string { return s.segment.Fields() }

func (s *segmentSnapshot) Size() (rv int) {
	rv = s.segment.Size()
	if s.deleted != nil {
		rv += int(s.deleted.GetSizeInBytes())
	}
	return rv
}

var _ SegmentSnapshot = (*segmentSnapshot)(nil)
