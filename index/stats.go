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

import "go.uber.org/atomic"

// Stats tracks index-level counters, read concurrently with writes (a
// search may run while a Batch is in flight), hence atomic.Uint64 rather
// than plain fields. A small subset of bluge/index/stats.go's ~70
// counters: this index layer has no async introducer/persister/merger
// pipeline to instrument (see writer.go's DESIGN.md entry), so most of
// the teacher's event-loop-phase counters (TotIntroduceLoop,
// TotPersistLoopBeg, ...) have nothing to count here.
type Stats struct {
	TotBatches      atomic.Uint64
	TotUpdates      atomic.Uint64
	TotDeletes      atomic.Uint64
	TotOnErrors     atomic.Uint64
	TotMergedEpochs atomic.Uint64

	TotTermSearchersStarted  atomic.Uint64
	TotTermSearchersFinished atomic.Uint64
}

func (s *Writer) Stats() *Stats {
	return &s.stats
}
