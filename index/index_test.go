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
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelpsearch/kelp/segment"
)

// fakes mirror segment/kelpfmt's test fixtures (unexported there, so
// reimplemented here rather than shared across packages).

type fakeDoc struct {
	fields []segment.Field
}

func (d *fakeDoc) EachField(visit segment.VisitField) {
	for _, f := range d.fields {
		visit(f)
	}
}

type fakeField struct {
	name      string
	value     []byte
	length    int
	store     bool
	docValues bool
	docValue  []byte
	terms     []segment.FieldTerm
}

func (f *fakeField) Name() string         { return f.name }
func (f *fakeField) Value() []byte        { return f.value }
func (f *fakeField) Length() int          { return f.length }
func (f *fakeField) Store() bool          { return f.store }
func (f *fakeField) IndexDocValues() bool { return f.docValues }
func (f *fakeField) IndexVector() bool    { return false }
func (f *fakeField) DocValue() []byte     { return f.docValue }
func (f *fakeField) EachTerm(visit segment.VisitTerm) {
	for _, t := range f.terms {
		visit(t)
	}
}

type fakeTerm struct {
	term string
	freq int
}

func (t *fakeTerm) Term() []byte   { return []byte(t.term) }
func (t *fakeTerm) Frequency() int { return t.freq }
func (t *fakeTerm) Weight() float64 { return float64(t.freq) }
func (t *fakeTerm) EachLocation(segment.VisitLocation) {}

func term(s string, freq int) segment.FieldTerm {
	return &fakeTerm{term: s, freq: freq}
}

func textField(name, value string, terms ...segment.FieldTerm) segment.Field {
	return &fakeField{name: name, value: []byte(value), length: len(terms), store: true, terms: terms}
}

func doc(id, title string, terms ...string) segment.Document {
	ts := make([]segment.FieldTerm, len(terms))
	for i, t := range terms {
		ts[i] = term(t, 1)
	}
	return &fakeDoc{fields: []segment.Field{
		textField("title", title, ts...),
		textField("_id", id, term(id, 1)),
	}}
}

type fakeQueryTerm struct {
	field string
	term  []byte
}

func (t fakeQueryTerm) Field() string { return t.field }
func (t fakeQueryTerm) Term() []byte  { return t.term }

func idTerm(id string) segment.Term {
	return fakeQueryTerm{field: "_id", term: []byte(id)}
}

func openTestWriter(t *testing.T) *Writer {
	t.Helper()
	w, err := OpenWriter(DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestInMemoryDirectoryRoundTrip(t *testing.T) {
	d := NewInMemoryDirectory()
	require.NoError(t, d.Setup(false))
	require.NoError(t, d.Lock())

	var written fakeWriterTo
	written.payload = []byte("hello segment")
	require.NoError(t, d.Persist(ItemKindSegment, 7, &written, nil))

	ids, err := d.List(ItemKindSegment)
	require.NoError(t, err)
	assert.Equal(t, []uint64{7}, ids)

	got, err := d.Load(ItemKindSegment, 7)
	require.NoError(t, err)
	assert.Equal(t, written.payload, got)

	require.NoError(t, d.Remove(ItemKindSegment, 7))
	ids, err = d.List(ItemKindSegment)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, d.Unlock())
}

type fakeWriterTo struct {
	payload []byte
}

func (f *fakeWriterTo) WriteTo(w io.Writer, _ chan struct{}) (int64, error) {
	n, err := w.Write(f.payload)
	return int64(n), err
}

func TestWriterBatchInsertUpdateDelete(t *testing.T) {
	w := openTestWriter(t)

	b := NewBatch()
	b.Insert(doc("d1", "the quick fox", "the", "quick", "fox"))
	b.Insert(doc("d2", "the lazy dog", "the", "lazy", "dog"))
	require.NoError(t, w.Batch(b))

	snap, err := w.Reader()
	require.NoError(t, err)
	count, err := snap.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	// Update supersedes d1 via a delete-by-term on its stable id, not its title.
	b2 := NewBatch()
	b2.Update(idTerm("d1"), doc("d1", "the quick fox v2", "the", "quick", "fox"))
	require.NoError(t, w.Batch(b2))

	snap, err = w.Reader()
	require.NoError(t, err)
	count, err = snap.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count, "old d1 superseded but new d1 replaces it, one-for-one")

	b3 := NewBatch()
	b3.Delete(idTerm("d2"))
	require.NoError(t, w.Batch(b3))

	snap, err = w.Reader()
	require.NoError(t, err)
	count, err = snap.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestSnapshotPostingsIteratorCrossSegment(t *testing.T) {
	w := openTestWriter(t)

	b1 := NewBatch()
	b1.Insert(doc("d1", "the quick fox", "the", "quick", "fox"))
	require.NoError(t, w.Batch(b1))

	b2 := NewBatch()
	b2.Insert(doc("d2", "the lazy dog", "the", "lazy", "dog"))
	require.NoError(t, w.Batch(b2))

	snap, err := w.Reader()
	require.NoError(t, err)
	require.Len(t, snap.segment, 2, "expected two distinct segments before any merge")

	it, err := snap.PostingsIterator([]byte("the"), "title", true, true, true)
	require.NoError(t, err)
	defer it.Close()

	var seen []uint64
	for {
		p, err := it.Next()
		require.NoError(t, err)
		if p == nil {
			break
		}
		seen = append(seen, p.Number())
	}
	assert.ElementsMatch(t, []uint64{0, 1}, seen, "global doc numbers must span both segments")
}

func TestSnapshotDictionaryIteratorCrossSegment(t *testing.T) {
	w := openTestWriter(t)

	b1 := NewBatch()
	b1.Insert(doc("d1", "the quick fox", "the", "quick", "fox"))
	require.NoError(t, w.Batch(b1))

	b2 := NewBatch()
	b2.Insert(doc("d2", "the lazy dog", "the", "lazy", "dog"))
	require.NoError(t, w.Batch(b2))

	snap, err := w.Reader()
	require.NoError(t, err)

	it, err := snap.DictionaryIterator("title", segment.MatchAllAutomaton{}, nil, nil)
	require.NoError(t, err)
	defer it.Close()

	counts := map[string]uint64{}
	for {
		entry, err := it.Next()
		require.NoError(t, err)
		if entry == nil {
			break
		}
		counts[entry.Term()] = entry.Count()
	}
	assert.Equal(t, uint64(2), counts["the"], "term present in both segments must merge to a combined count")
	assert.Equal(t, uint64(1), counts["fox"])
	assert.Equal(t, uint64(1), counts["dog"])
}

func TestWriterTOCRoundTripAcrossReopen(t *testing.T) {
	dir := NewInMemoryDirectory()
	cfg := DefaultConfig().WithDirectory(func() Directory { return dir })

	w, err := OpenWriter(cfg)
	require.NoError(t, err)

	b := NewBatch()
	b.Insert(doc("d1", "the quick fox", "the", "quick", "fox"))
	b.Insert(doc("d2", "the lazy dog", "the", "lazy", "dog"))
	require.NoError(t, w.Batch(b))
	require.NoError(t, w.Close())

	reopened, err := OpenWriter(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	snap, err := reopened.Reader()
	require.NoError(t, err)
	count, err := snap.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	it, err := snap.PostingsIterator([]byte("fox"), "title", false, false, false)
	require.NoError(t, err)
	defer it.Close()
	p, err := it.Next()
	require.NoError(t, err)
	require.NotNil(t, p)
}

func TestMaybeMergeFoldsOverflowingTier(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergePlan = MergePlanOptions{MaxSegmentsPerTier: 2, TierGrowthFactor: 4, FloorDocCount: 1}
	w, err := OpenWriter(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	for i := 0; i < 3; i++ {
		b := NewBatch()
		b.Insert(doc(fmt.Sprintf("doc-%d", i), "doc", "the", "quick"))
		require.NoError(t, w.Batch(b))
	}

	snap, err := w.Reader()
	require.NoError(t, err)
	assert.Less(t, len(snap.segment), 3, "three same-tier single-doc segments should have merged")

	count, err := snap.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count, "merging must preserve every live document")
}
