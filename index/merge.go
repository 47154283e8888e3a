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
	"sort"

	"github.com/kelpsearch/kelp/segment/kelpfmt"
)

// MergePlanOptions tunes when Writer folds small segments together.
// bluge/index/merge.go drives its merging off a
// blugelabs/bluge/index/mergeplan.Options value, but that package's
// source was never retrieved into the pack (only call sites were, e.g.
// Config.MergePlanOptions) — this is a from-scratch size-tiered plan in
// the well-known spirit of a tiered merge policy (bound how many
// segments may exist per size tier, merge a tier once it overflows),
// not a port.
type MergePlanOptions struct {
	// MaxSegmentsPerTier is how many segments of a similar size may
	// coexist before they're merged into one.
	MaxSegmentsPerTier int

	// TierGrowthFactor is the size ratio separating one tier from the
	// next: a segment's tier is how many times FloorDocCount must be
	// multiplied by factor to reach its docCount (tier 0 at or below
	// FloorDocCount).
	TierGrowthFactor float64

	// FloorDocCount is the smallest tier size considered, so that many
	// tiny segments (e.g. single-document batches) still merge instead
	// of accumulating one tier apart.
	FloorDocCount uint64
}

var DefaultMergePlanOptions = MergePlanOptions{
	MaxSegmentsPerTier: 4,
	TierGrowthFactor:   4,
	FloorDocCount:      64,
}

// mergeTask names a group of segment ids that should merge into one.
type mergeTask struct {
	ids []uint64
}

// planMerges groups snapshot's segments into tiers by document count and
// returns a merge task for every tier that has overflowed
// MaxSegmentsPerTier.
func planMerges(snap *Snapshot, opts MergePlanOptions) []mergeTask {
	if opts.MaxSegmentsPerTier <= 0 || len(snap.segment) < 2 {
		return nil
	}

	byTier := map[int][]*segmentSnapshot{}
	for _, ss := range snap.segment {
		byTier[tierOf(ss.segment.Count(), opts)] = append(byTier[tierOf(ss.segment.Count(), opts)], ss)
	}

	var tiers []int
	for t := range byTier {
		tiers = append(tiers, t)
	}
	sort.Ints(tiers)

	var tasks []mergeTask
	for _, t := range tiers {
		segs := byTier[t]
		if len(segs) <= opts.MaxSegmentsPerTier {
			continue
		}
		ids := make([]uint64, len(segs))
		for i, ss := range segs {
			ids[i] = ss.id
		}
		tasks = append(tasks, mergeTask{ids: ids})
	}
	return tasks
}

func tierOf(docCount uint64, opts MergePlanOptions) int {
	if docCount < opts.FloorDocCount {
		docCount = opts.FloorDocCount
	}
	tier := 0
	for f := float64(opts.FloorDocCount); f < float64(docCount); f *= opts.TierGrowthFactor {
		tier++
	}
	return tier
}

// mergeSegments folds several live segmentSnapshots into one new
// kelpfmt segment, at the posting-list level (see kelpfmt.Merge), then
// hands back that segment ready to be wrapped in a fresh
// segmentSnapshot with a nil deletion bitmap (merging already dropped
// every deleted document).
func mergeSegments(segs []*segmentSnapshot) (*kelpfmt.Segment, error) {
	inputs := make([]kelpfmt.Input, 0, len(segs))
	for _, ss := range segs {
		kfSeg, ok := ss.segment.(*kelpfmt.Segment)
		if !ok {
			return nil, fmt.Errorf("index: merge: segment %d is not a kelpfmt segment", ss.id)
		}
		inputs = append(inputs, kelpfmt.Input{Segment: kfSeg, Live: ss.DocNumbersLive()})
	}
	return kelpfmt.Merge(inputs)
}
