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

package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kelpsearch/kelp/index"
	"github.com/kelpsearch/kelp/numeric"
	"github.com/kelpsearch/kelp/search"
	"github.com/kelpsearch/kelp/segment"
)

// Fixtures mirror index/index_test.go's own (unexported there, so
// reimplemented here) since each package's tests are self-contained.

type fakeDoc struct {
	fields []segment.Field
}

func (d *fakeDoc) EachField(visit segment.VisitField) {
	for _, f := range d.fields {
		visit(f)
	}
}

type fakeField struct {
	name   string
	value  []byte
	length int
	store  bool
	terms  []segment.FieldTerm
}

func (f *fakeField) Name() string                     { return f.name }
func (f *fakeField) Value() []byte                    { return f.value }
func (f *fakeField) Length() int                      { return f.length }
func (f *fakeField) Store() bool                      { return f.store }
func (f *fakeField) IndexDocValues() bool              { return false }
func (f *fakeField) IndexVector() bool                { return false }
func (f *fakeField) DocValue() []byte                 { return nil }
func (f *fakeField) EachTerm(visit segment.VisitTerm) {
	for _, t := range f.terms {
		visit(t)
	}
}

type fakeLocation struct {
	field string
	pos   int
}

func (l *fakeLocation) Field() string   { return l.field }
func (l *fakeLocation) Pos() int        { return l.pos }
func (l *fakeLocation) Start() int      { return 0 }
func (l *fakeLocation) End() int        { return 0 }
func (l *fakeLocation) Payload() []byte { return nil }
func (l *fakeLocation) Size() int       { return 0 }

type fakeTerm struct {
	term string
	freq int
	locs []segment.Location
}

func (t *fakeTerm) Term() []byte    { return []byte(t.term) }
func (t *fakeTerm) Frequency() int  { return t.freq }
func (t *fakeTerm) Weight() float64 { return float64(t.freq) }
func (t *fakeTerm) EachLocation(visit segment.VisitLocation) {
	for _, l := range t.locs {
		visit(l)
	}
}

func term(s string) segment.FieldTerm { return &fakeTerm{term: s, freq: 1} }

// textField analyzes terms as if positioned consecutively starting at 0,
// so NewPhraseSearcher's position-adjacency test has real Pos values to
// check against, not the zero value every occurrence would share if
// EachLocation were left a no-op.
func textField(name string, terms ...string) segment.Field {
	byTerm := make(map[string]*fakeTerm)
	var order []string
	for i, s := range terms {
		ft, ok := byTerm[s]
		if !ok {
			ft = &fakeTerm{term: s}
			byTerm[s] = ft
			order = append(order, s)
		}
		ft.freq++
		ft.locs = append(ft.locs, &fakeLocation{field: name, pos: i})
	}
	ts := make([]segment.FieldTerm, len(order))
	for i, s := range order {
		ts[i] = byTerm[s]
	}
	return &fakeField{name: name, value: []byte(""), length: len(terms), store: true, terms: ts}
}

// numField indexes v at every precisionStep=4 shift tier
// NewNumericRangeSearcher's splitInt64Range can pick, the way a real
// numeric field's analysis would (one term per shift, not just full
// precision) so a range spanning more than one tier resolves correctly.
func numField(name string, v float64) segment.Field {
	iv := numeric.Float64ToInt64(v)
	var terms []segment.FieldTerm
	for shift := uint(0); shift < 64; shift += 4 {
		code := numeric.MustNewPrefixCodedInt64(iv, shift)
		terms = append(terms, term(string(code)))
	}
	return &fakeField{name: name, length: len(terms), terms: terms}
}

func doc(fields ...segment.Field) segment.Document {
	return &fakeDoc{fields: fields}
}

// openTestReader indexes docs in a single batch and returns a reader
// satisfying search.Reader, directly off *index.Snapshot (see
// DESIGN.md's search.Reader entry: no adapter needed).
func openTestReader(t *testing.T, docs ...segment.Document) search.Reader {
	t.Helper()
	w, err := index.OpenWriter(index.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	b := index.NewBatch()
	for _, d := range docs {
		b.Insert(d)
	}
	require.NoError(t, w.Batch(b))

	r, err := w.Reader()
	require.NoError(t, err)
	return r
}

func defaultOptions() search.SearcherOptions {
	return search.SearcherOptions{Score: "default"}
}

func docNumbers(t *testing.T, ctx *search.Context, s search.Searcher) []uint64 {
	t.Helper()
	var got []uint64
	dm, err := s.Next(ctx)
	require.NoError(t, err)
	for dm != nil {
		got = append(got, dm.Number)
		dm, err = s.Next(ctx)
		require.NoError(t, err)
	}
	return got
}

func newCtx() *search.Context {
	return search.NewSearchContext(10, 0)
}
