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

package similarity

import (
	"math"

	"github.com/kelpsearch/kelp/search"
	"github.com/kelpsearch/kelp/segment"
)

// TFIDFSimilarity is the classic vector-space scorer spec §4.4 names
// alongside BM25F as "provided for completeness": score =
// boost * idf * sqrt(freq) * 1/sqrt(fieldLength), the pre-BM25 Lucene
// default. Shares BM25Similarity's norm encoding (the raw term count
// packed as float32 bits, see BM25Similarity.ComputeNorm) since both
// read the same postings norm byte.
type TFIDFSimilarity struct{}

// NewTFIDFSimilarity builds a TFIDFSimilarity. It takes no parameters;
// unlike BM25 it has no saturation/length-normalization knobs to tune.
func NewTFIDFSimilarity() *TFIDFSimilarity { return &TFIDFSimilarity{} }

func (s *TFIDFSimilarity) ComputeNorm(numTerms int) float64 {
	return float64(math.Float32frombits(uint32(numTerms)))
}

func (s *TFIDFSimilarity) idf(docFreq, docCount uint64) float64 {
	if docFreq == 0 {
		return 0
	}
	return 1 + math.Log(float64(docCount)/float64(docFreq+1))
}

func (s *TFIDFSimilarity) Scorer(boost float64, collStats segment.CollectionStats, termStats segment.TermStats) search.Scorer {
	docFreq := termStats.DocumentFrequency()
	var docCount uint64
	if collStats != nil {
		docCount = collStats.DocumentCount()
	}
	idf := s.idf(docFreq, docCount)
	idfExplain := search.NewExplanation(idf, "idf, computed as 1 + log(N / (n + 1)) from:",
		search.NewExplanation(float64(docFreq), "n, number of documents containing term"),
		search.NewExplanation(float64(docCount), "N, total number of documents with field"))
	return NewTFIDFScorer(boost, idfExplain)
}

// TFIDFScorer is the Scorer TFIDFSimilarity.Scorer builds.
type TFIDFScorer struct {
	boost  float64
	weight float64
	idf    *search.Explanation
}

// NewTFIDFScorer builds a scorer from a precomputed idf explanation, so
// a CompositeScorer combining several clauses can share one IDF
// computation across repeated scoring, mirroring NewBM25Scorer.
func NewTFIDFScorer(boost float64, idf *search.Explanation) *TFIDFScorer {
	return &TFIDFScorer{boost: boost, weight: boost * idf.Value, idf: idf}
}

func (s *TFIDFScorer) fieldNorm(norm float64) float64 {
	docLen := math.Float32bits(float32(norm))
	if docLen == 0 {
		return 1
	}
	return 1 / math.Sqrt(float64(docLen))
}

// Score computes boost * idf * sqrt(freq) * fieldNorm.
func (s *TFIDFScorer) Score(freq int, norm float64) float64 {
	return s.weight * math.Sqrt(float64(freq)) * s.fieldNorm(norm)
}

func (s *TFIDFScorer) Explain(freq int, norm float64) *search.Explanation {
	tf := search.NewExplanation(math.Sqrt(float64(freq)), "tf, computed as sqrt(freq)",
		search.NewExplanation(float64(freq), "freq, occurrences of term within document"))
	fieldNorm := search.NewExplanation(s.fieldNorm(norm), "fieldNorm, computed as 1/sqrt(fieldLength)")
	children := []*search.Explanation{s.idf, tf, fieldNorm}
	if s.boost != noBoost {
		children = append(children, search.NewExplanation(s.boost, "boost"))
	}
	return search.NewExplanation(s.Score(freq, norm),
		"score, computed as boost * idf * tf * fieldNorm from:", children...)
}

var _ search.Similarity = (*TFIDFSimilarity)(nil)
var _ search.Scorer = (*TFIDFScorer)(nil)
