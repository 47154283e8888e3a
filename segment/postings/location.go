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

package postings

import "github.com/kelpsearch/kelp/segment"

// location implements segment.Location: one (position, char range, payload)
// occurrence of a term within a field.
type location struct {
	field   string
	pos     int
	start   int
	end     int
	payload []byte
}

func (l *location) Field() string   { return l.field }
func (l *location) Pos() int        { return l.pos }
func (l *location) Start() int      { return l.start }
func (l *location) End() int        { return l.end }
func (l *location) Payload() []byte { return l.payload }
func (l *location) Size() int       { return 32 + len(l.field) + len(l.payload) }

var _ segment.Location = (*location)(nil)
