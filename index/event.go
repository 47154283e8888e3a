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

import "time"

// Event is delivered to Config.EventCallback for notable Writer
// lifecycle moments. Ported from bluge/index/event.go, trimmed to the
// event kinds a synchronous writer can actually fire (no separate
// introducer/persister/merger loops to report progress from
// individually, see writer.go's DESIGN.md entry).
type Event struct {
	Kind     int
	Writer   *Writer
	Duration time.Duration
}

const (
	EventKindBatchIntroduction = 1 // a Batch finished committing a new snapshot
	EventKindMerge             = 2 // a round of segment merging finished
	EventKindClose             = 3 // the writer finished closing
)
