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

import "go.uber.org/zap"

// Config controls how a Writer persists and merges segments. Ported from
// bluge/index/config.go, trimmed to what this index layer's synchronous
// writer actually consults: dropped MergeBufferSize,
// PersisterNapTimeMSec/PersisterNapUnderNumFiles,
// MemoryPressurePauseThreshold, AnalysisChan/NumAnalysisWorkers and the
// Optimize* flags, all of which exist to tune the teacher's async
// introducer/persister/merger goroutine pipeline (see writer.go's
// DESIGN.md entry on why this layer is synchronous instead).
type Config struct {
	// DirectoryFunc builds the Directory a Writer persists segments and
	// snapshot TOCs to.
	DirectoryFunc func() Directory

	// DeletionPolicyFunc builds the policy deciding which old snapshots
	// and segments Cleanup may reclaim after a commit.
	DeletionPolicyFunc func() DeletionPolicy

	// MergePlan controls when and how the Writer folds small segments
	// together after each commit (see merge.go).
	MergePlan MergePlanOptions

	// UnsafeBatch is not read by Writer: documents handed to a Batch are
	// used as given and never deep-copied, whatever its value.
	UnsafeBatch bool

	// Logger receives the Writer's warnings (an unreadable snapshot
	// skipped on open, a failed deletion-policy cleanup); nil disables
	// logging.
	Logger *zap.Logger

	// EventCallback, if set, is invoked synchronously for each Event
	// (see event.go) a Writer emits.
	EventCallback func(Event)
}

// DefaultConfig returns a Config backed by an InMemoryDirectory, a
// KeepNLatestDeletionPolicy(1) and the default merge plan.
func DefaultConfig() Config {
	return Config{
		DirectoryFunc:      func() Directory { return NewInMemoryDirectory() },
		DeletionPolicyFunc: func() DeletionPolicy { return NewKeepNLatestDeletionPolicy(1) },
		MergePlan:          DefaultMergePlanOptions,
	}
}

func (c Config) WithDirectory(f func() Directory) Config {
	c.DirectoryFunc = f
	return c
}

func (c Config) WithLogger(l *zap.Logger) Config {
	c.Logger = l
	return c
}
