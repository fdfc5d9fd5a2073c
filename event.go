// Copyright 2026 Blink Labs Software
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

package veriform

import (
	"github.com/blinklabs-io/goveriform/field"
)

// Event is a single unit of decoding progress. The decoder produces events
// in wire order and feeds them to the content hashers, decoupling the act of
// parsing from the act of hashing so that both the transcript and any
// registered observer see an identical stream.
//
// The event set is closed: HeaderEvent, LengthDelimiterEvent, UInt64Event,
// SInt64Event, and ValueChunkEvent are the only implementations.
type Event interface {
	isEvent()
}

// HeaderEvent records that a field header was decoded
type HeaderEvent struct {
	Header field.Header
}

// LengthDelimiterEvent records the declared byte length of a dynamically
// sized value, observed before any of its payload
type LengthDelimiterEvent struct {
	WireType field.WireType
	Length   int
}

// UInt64Event carries a decoded unsigned integer value
type UInt64Event struct {
	Value uint64
}

// SInt64Event carries a decoded signed integer value
type SInt64Event struct {
	Value int64
}

// ValueChunkEvent carries a run of payload bytes from the dynamically sized
// value currently being decoded. Remaining is the number of payload bytes
// still expected after this chunk. Bytes is a view into the input buffer and
// is only valid until the decode call that produced it returns.
type ValueChunkEvent struct {
	WireType  field.WireType
	Bytes     []byte
	Remaining int
}

func (HeaderEvent) isEvent()          {}
func (LengthDelimiterEvent) isEvent() {}
func (UInt64Event) isEvent()          {}
func (SInt64Event) isEvent()          {}
func (ValueChunkEvent) isEvent()      {}

// EventFunc receives each decoding event as it is produced. Observers must
// not retain ValueChunkEvent byte views past the callback.
type EventFunc func(Event)
