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
	"go.uber.org/zap"

	"github.com/kelpsearch/kelp/analysis"
	"github.com/kelpsearch/kelp/analysis/analyzer"
	"github.com/kelpsearch/kelp/index"
	"github.com/kelpsearch/kelp/search"
	"github.com/kelpsearch/kelp/search/similarity"
)

// Config controls how a Writer analyzes, scores and persists an index.
// It wraps index.Config (the segment-storage knobs) with the query-side
// defaults spec §6 needs a top-level Search call to fall back on.
//
// Grounded on bluge/config.go's Config, adapted for this module's
// synchronous index.Writer (no WithVirtualField/WithNormCalc hook:
// segment/kelpfmt/build.go computes norm from Field.Length() directly,
// so there is nothing for a per-field norm-calc override to plug into;
// see DESIGN.md).
type Config struct {
	IndexConfig index.Config
	Logger      *zap.Logger

	DefaultSearchField    string
	DefaultSearchAnalyzer *analysis.Analyzer
	DefaultSimilarity     search.Similarity
	PerFieldSimilarity    map[string]search.Similarity
}

// SimilarityForField resolves field's Similarity through
// PerFieldSimilarity, falling back to DefaultSimilarity.
func (c Config) SimilarityForField(field string) search.Similarity {
	if s, ok := c.PerFieldSimilarity[field]; ok {
		return s
	}
	return c.DefaultSimilarity
}

// DefaultConfig returns a Config persisting to path on the local
// filesystem (index.NewFileSystemDirectory).
func DefaultConfig(path string) Config {
	return defaultConfig(index.DefaultConfig().WithDirectory(func() index.Directory {
		return index.NewFileSystemDirectory(path)
	}))
}

// InMemoryOnlyConfig returns a Config backed entirely by memory, for
// tests and ephemeral indexes.
func InMemoryOnlyConfig() Config {
	return defaultConfig(index.DefaultConfig())
}

// DefaultConfigWithDirectory returns a Config using df to build the
// underlying index.Directory.
func DefaultConfigWithDirectory(df func() index.Directory) Config {
	return defaultConfig(index.DefaultConfig().WithDirectory(df))
}

func defaultConfig(indexConfig index.Config) Config {
	return Config{
		IndexConfig:           indexConfig,
		DefaultSearchField:    "_all",
		DefaultSearchAnalyzer: analyzer.NewStandardAnalyzer(),
		DefaultSimilarity:     similarity.NewBM25Similarity(),
		PerFieldSimilarity:    map[string]search.Similarity{},
	}
}

func (c Config) WithLogger(l *zap.Logger) Config {
	c.IndexConfig = c.IndexConfig.WithLogger(l)
	c.Logger = l
	return c
}

func (c Config) WithDefaultSearchField(field string) Config {
	c.DefaultSearchField = field
	return c
}

func (c Config) WithDefaultSearchAnalyzer(a *analysis.Analyzer) Config {
	c.DefaultSearchAnalyzer = a
	return c
}

func (c Config) WithSimilarity(s search.Similarity) Config {
	c.DefaultSimilarity = s
	return c
}
