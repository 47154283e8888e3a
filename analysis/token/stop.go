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

package token

import (
	"github.com/kelpsearch/kelp/analysis"
)

// StopTokensFilter drops tokens whose term is present in stopTokens,
// preserving the position gap so subsequent phrase matching isn't skewed.
type StopTokensFilter struct {
	stopTokens analysis.TokenMap
}

func NewStopTokensFilter(stopTokens analysis.TokenMap) *StopTokensFilter {
	return &StopTokensFilter{
		stopTokens: stopTokens,
	}
}

func (f *StopTokensFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	j, skipped := 0, 0
	for _, token := range input {
		if f.stopTokens[string(token.Term)] {
			skipped += token.PositionIncr
			continue
		}
		token.PositionIncr += skipped
		skipped = 0
		input[j] = token
		j++
	}
	return input[:j]
}
