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

package kelpfmt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelpsearch/kelp/segment"
)

type fakeDoc struct {
	fields []segment.Field
}

func (d *fakeDoc) EachField(visit segment.VisitField) {
	for _, f := range d.fields {
		visit(f)
	}
}

type fakeField struct {
	name       string
	value      []byte
	length     int
	store      bool
	docValues  bool
	docValue   []byte
	terms      []segment.FieldTerm
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

func (t *fakeTerm) Term() []byte       { return []byte(t.term) }
func (t *fakeTerm) Frequency() int     { return t.freq }
func (t *fakeTerm) Weight() float64    { return float64(t.freq) }
func (t *fakeTerm) EachLocation(segment.VisitLocation) {}

func term(s string, freq int) segment.FieldTerm {
	return &fakeTerm{term: s, freq: freq}
}

func textField(name, value string, terms ...segment.FieldTerm) segment.Field {
	return &fakeField{name: name, value: []byte(value), length: len(terms), store: true, terms: terms}
}

func columnField(name string, value []byte) segment.Field {
	return &fakeField{name: name, docValues: true, docValue: value}
}

func buildFixture() []segment.Document {
	return []segment.Document{
		&fakeDoc{fields: []segment.Field{
			textField("title", "the quick fox", term("the", 1), term("quick", 1), term("fox", 1)),
			columnField("rank", []byte{0, 0, 0, 1}),
		}},
		&fakeDoc{fields: []segment.Field{
			textField("title", "the lazy dog", term("the", 1), term("lazy", 1), term("dog", 1)),
			columnField("rank", []byte{0, 0, 0, 2}),
		}},
	}
}

func TestBuildAndQueryInMemory(t *testing.T) {
	s, err := Build(buildFixture())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), s.Count())
	assert.Equal(t, []string{"rank", "title"}, s.Fields())

	dict, err := s.Dictionary("title")
	require.NoError(t, err)
	pl, err := dict.TermInfo([]byte("the"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), pl.DocFreq())

	pl, err = dict.TermInfo([]byte("fox"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), pl.DocFreq())
	it, err := pl.Iterator(true, true, true, nil)
	require.NoError(t, err)
	p, err := it.Next()
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, uint64(0), p.Number())
}

func TestVisitStoredFieldsAndColumns(t *testing.T) {
	s, err := Build(buildFixture())
	require.NoError(t, err)

	var got []string
	err = s.VisitStoredFields(1, func(field string, value []byte) bool {
		got = append(got, field+"="+string(value))
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"title=the lazy dog"}, got)

	cr, err := s.ColumnReader([]string{"rank"})
	require.NoError(t, err)
	var rank []byte
	err = cr.VisitColumnValues(1, func(field string, value []byte) {
		if field == "rank" {
			rank = value
		}
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 2}, rank)
}

func TestWriteToAndLoadRoundTrip(t *testing.T) {
	built, err := Build(buildFixture())
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = built.WriteTo(&buf, nil)
	require.NoError(t, err)

	loaded, err := Load(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, built.Count(), loaded.Count())
	assert.Equal(t, built.Fields(), loaded.Fields())

	dict, err := loaded.Dictionary("title")
	require.NoError(t, err)
	pl, err := dict.TermInfo([]byte("the"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), pl.DocFreq())

	contains, err := dict.Contains([]byte("quick"))
	require.NoError(t, err)
	assert.True(t, contains)
	contains, err = dict.Contains([]byte("absent"))
	require.NoError(t, err)
	assert.False(t, contains)

	var stored []string
	err = loaded.VisitStoredFields(0, func(field string, value []byte) bool {
		stored = append(stored, field+"="+string(value))
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"title=the quick fox"}, stored)

	cr, err := loaded.ColumnReader([]string{"rank"})
	require.NoError(t, err)
	var rank []byte
	err = cr.VisitColumnValues(0, func(field string, value []byte) {
		if field == "rank" {
			rank = value
		}
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 1}, rank)
}

func TestDocsMatchingTerms(t *testing.T) {
	s, err := Build(buildFixture())
	require.NoError(t, err)

	bm, err := s.DocsMatchingTerms([]segment.Term{fakeQueryTerm{field: "title", term: []byte("dog")}})
	require.NoError(t, err)
	assert.True(t, bm.Contains(1))
	assert.False(t, bm.Contains(0))
}

type fakeQueryTerm struct {
	field string
	term  []byte
}

func (t fakeQueryTerm) Field() string { return t.field }
func (t fakeQueryTerm) Term() []byte  { return t.term }
