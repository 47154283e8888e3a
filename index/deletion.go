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

// DeletionPolicy decides which historic snapshots and segments a Writer
// may reclaim. Commit is called once per successfully persisted
// snapshot; Cleanup is called afterward to actually remove what's no
// longer reachable. Ported from bluge/index/deletion.go near verbatim.
type DeletionPolicy interface {
	Commit(snapshot *Snapshot)
	Cleanup(Directory) error
}

// KeepNLatestDeletionPolicy retains the n most recently committed
// snapshots (and whatever segments they reference); anything older
// becomes eligible for removal on the next Cleanup.
type KeepNLatestDeletionPolicy struct {
	n                 int
	liveEpochs        []uint64
	deletableEpochs   []uint64
	liveSegments      map[uint64]map[uint64]struct{}
	knownSegmentFiles map[uint64]struct{}
}

func NewKeepNLatestDeletionPolicy(n int) *KeepNLatestDeletionPolicy {
	return &KeepNLatestDeletionPolicy{
		n:                 n,
		liveSegments:      make(map[uint64]map[uint64]struct{}),
		knownSegmentFiles: make(map[uint64]struct{}),
	}
}

func (p *KeepNLatestDeletionPolicy) Commit(snapshot *Snapshot) {
	snapshotSegments := make(map[uint64]struct{})
	for _, ss := range snapshot.segment {
		snapshotSegments[ss.id] = struct{}{}
		p.knownSegmentFiles[ss.id] = struct{}{}
	}

	p.liveEpochs = append(p.liveEpochs, snapshot.epoch)
	p.liveSegments[snapshot.epoch] = snapshotSegments

	if len(p.liveEpochs) > p.n {
		newlyDeletable := p.liveEpochs[:len(p.liveEpochs)-p.n]
		p.liveEpochs = p.liveEpochs[len(p.liveEpochs)-p.n:]
		p.deletableEpochs = append(p.deletableEpochs, newlyDeletable...)
	}
}

func (p *KeepNLatestDeletionPolicy) Cleanup(dir Directory) error {
	p.cleanupSnapshots(dir)
	p.cleanupSegments(dir)
	return nil
}

func (p *KeepNLatestDeletionPolicy) cleanupSnapshots(dir Directory) {
	var remaining []uint64
	for _, epoch := range p.deletableEpochs {
		if err := dir.Remove(ItemKindSnapshot, epoch); err != nil {
			remaining = append(remaining, epoch)
			continue
		}
		delete(p.liveSegments, epoch)
	}
	p.deletableEpochs = remaining
}

func (p *KeepNLatestDeletionPolicy) cleanupSegments(dir Directory) {
outer:
	for segID := range p.knownSegmentFiles {
		for _, inSnapshot := range p.liveSegments {
			if _, ok := inSnapshot[segID]; ok {
				continue outer
			}
		}
		if err := dir.Remove(ItemKindSegment, segID); err != nil {
			continue
		}
		delete(p.knownSegmentFiles, segID)
	}
}

var _ DeletionPolicy = (*KeepNLatestDeletionPolicy)(nil)
