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

package analysis

import "github.com/kelpsearch/kelp/segment"

// TokenLocation is one occurrence of a term at a particular location in a
// field; it implements segment.Location so an analyzed field can feed the
// segment writer (spec §4.2 phase 2) directly.
type TokenLocation struct {
	FieldVal    string
	StartVal    int
	EndVal      int
	PositionVal int
	PayloadVal  []byte
}

func (tl *TokenLocation) Field() string    { return tl.FieldVal }
func (tl *TokenLocation) Pos() int         { return tl.PositionVal }
func (tl *TokenLocation) Start() int       { return tl.StartVal }
func (tl *TokenLocation) End() int         { return tl.EndVal }
func (tl *TokenLocation) Payload() []byte  { return tl.PayloadVal }
func (tl *TokenLocation) Size() int        { return 48 + len(tl.FieldVal) + len(tl.PayloadVal) }

// TokenFreq represents all occurrences of one term within a field (or,
// after MergeAll, within a whole document).
type TokenFreq struct {
	TermVal   []byte
	Locations []*TokenLocation
	frequency int
	weight    float64
}

func (tf *TokenFreq) Size() int {
	rv := 32 + len(tf.TermVal)
	for _, loc := range tf.Locations {
		rv += loc.Size()
	}
	return rv
}

func (tf *TokenFreq) Term() []byte      { return tf.TermVal }
func (tf *TokenFreq) Frequency() int    { return tf.frequency }
func (tf *TokenFreq) Weight() float64 {
	if tf.weight != 0 {
		return tf.weight
	}
	return float64(tf.frequency)
}
func (tf *TokenFreq) SetWeight(w float64) { tf.weight = w }

func (tf *TokenFreq) EachLocation(visit segment.VisitLocation) {
	for _, tl := range tf.Locations {
		visit(tl)
	}
}

// TokenFrequencies maps term text to its combined TokenFreq within a field.
type TokenFrequencies map[string]*TokenFreq

// MergeAll folds other's entries into tfs, relabeling their field to
// remoteField — used when a composite field consumes a component field's
// analysis (spec's FieldConsumer pattern).
func (tfs TokenFrequencies) MergeAll(remoteField string, other TokenFrequencies) {
	for tfk, tf := range other {
		tfs.mergeOne(remoteField, tfk, tf)
	}
}

func (tfs TokenFrequencies) mergeOne(remoteField, tfk string, tf *TokenFreq) {
	for _, l := range tf.Locations {
		l.FieldVal = remoteField
	}
	if existing, exists := tfs[tfk]; exists {
		existing.Locations = append(existing.Locations, tf.Locations...)
		existing.frequency += tf.frequency
		return
	}
	cp := &TokenFreq{
		TermVal:   tf.TermVal,
		frequency: tf.frequency,
		Locations: make([]*TokenLocation, len(tf.Locations)),
	}
	copy(cp.Locations, tf.Locations)
	tfs[tfk] = cp
}

// TokenFrequency rolls up a TokenStream into per-term frequencies. When
// includeTermVectors is true, each occurrence's position/char-offset
// Location is retained (spec's "positions"/"chars" format flags);
// startOffset lets repeated fields of the same name continue the
// position sequence across field instances.
func TokenFrequency(tokens TokenStream, field string, includeTermVectors bool, startOffset int) (
	tokenFreqs TokenFrequencies, position int) {
	tokenFreqs = make(TokenFrequencies, len(tokens))

	if includeTermVectors {
		tls := make([]TokenLocation, len(tokens))
		tlNext := 0

		position = startOffset
		for _, token := range tokens {
			position += token.PositionIncr
			tls[tlNext] = TokenLocation{
				FieldVal:    field,
				StartVal:    token.Start,
				EndVal:      token.End,
				PositionVal: position,
			}

			if curr, ok := tokenFreqs[string(token.Term)]; ok {
				curr.Locations = append(curr.Locations, &tls[tlNext])
				curr.frequency++
			} else {
				tokenFreqs[string(token.Term)] = &TokenFreq{
					TermVal:   token.Term,
					Locations: []*TokenLocation{&tls[tlNext]},
					frequency: 1,
				}
			}

			tlNext++
		}
		return tokenFreqs, position
	}

	for _, token := range tokens {
		if curr, exists := tokenFreqs[string(token.Term)]; exists {
			curr.frequency++
		} else {
			tokenFreqs[string(token.Term)] = &TokenFreq{
				TermVal:   token.Term,
				frequency: 1,
			}
		}
	}
	return tokenFreqs, position
}
