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

package tokenizer

import (
	"regexp"

	"github.com/kelpsearch/kelp/analysis"
)

// ExceptionsTokenizer extracts pieces matched by exception from the input,
// delegates everything else to remaining, then reinserts the extracted parts
// in their original position. Use it to preserve sequences (e.g. emails,
// version numbers) that remaining's tokenizer would otherwise split up.
type ExceptionsTokenizer struct {
	exception *regexp.Regexp
	remaining analysis.Tokenizer
}

func NewExceptionsTokenizer(exception *regexp.Regexp, remaining analysis.Tokenizer) *ExceptionsTokenizer {
	return &ExceptionsTokenizer{
		exception: exception,
		remaining: remaining,
	}
}

func (t *ExceptionsTokenizer) Tokenize(input []byte) analysis.TokenStream {
	rv := make(analysis.TokenStream, 0)
	matches := t.exception.FindAllIndex(input, -1)
	currInput := 0
	for _, match := range matches {
		start := match[0]
		end := match[1]
		if start > currInput {
			intermediate := t.remaining.Tokenize(input[currInput:start])
			for _, token := range intermediate {
				token.Start += currInput
				token.End += currInput
				rv = append(rv, token)
			}
		}

		token := &analysis.Token{
			Term:         input[start:end],
			Start:        start,
			End:          end,
			PositionIncr: 1,
		}
		rv = append(rv, token)
		currInput = end
	}

	if currInput < len(input) {
		intermediate := t.remaining.Tokenize(input[currInput:])
		for _, token := range intermediate {
			token.Start += currInput
			token.End += currInput
			rv = append(rv, token)
		}
	}

	return rv
}
