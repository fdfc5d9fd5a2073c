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
	"fmt"
	"hash"

	"github.com/blinklabs-io/goveriform/field"
	"github.com/blinklabs-io/goveriform/verihash"
)

// SequenceHasher folds the event stream of a homogeneous sequence into a
// content transcript without buffering the sequence. Sequence elements are
// unadorned values, so header events are never accepted: scalar events
// complete an element immediately, while a length delimiter opens a
// dynamically sized element that one or more value chunks must then close
// exactly.
//
// The hasher is fail-closed. The first event inconsistent with the current
// state returns ErrHashing and permanently fails the hasher; every call
// after that returns ErrAlreadyFailed, and no digest can be produced.
type SequenceHasher struct {
	verihash *verihash.Hasher
	// state is consumed on every event and nil once the hasher has failed
	state *sequenceHasherState
}

// sequenceHasherState tracks the dynamically sized element in progress. The
// zero value sits between elements.
type sequenceHasherState struct {
	wireType  field.WireType
	remaining int
}

// NewSequenceHasher returns a SequenceHasher backed by the default hash
// function
func NewSequenceHasher() *SequenceHasher {
	return newSequenceHasherWith(verihash.New())
}

// NewSequenceHasherWithHash returns a SequenceHasher backed by the provided
// hash function
func NewSequenceHasherWithHash(h hash.Hash) *SequenceHasher {
	return newSequenceHasherWith(verihash.NewWithHash(h))
}

func newSequenceHasherWith(h *verihash.Hasher) *SequenceHasher {
	return &SequenceHasher{
		verihash: h,
		state:    &sequenceHasherState{},
	}
}

func (s *sequenceHasherState) idle() bool {
	return s.wireType == 0
}

// HashEvent folds a single event into the transcript. The current state is
// taken before the transition runs and only reinstated if the transition
// succeeds, so a rejected event leaves the hasher failed rather than in a
// state that could absorb further events.
func (h *SequenceHasher) HashEvent(event Event) error {
	state := h.state
	if state == nil {
		return ErrAlreadyFailed
	}
	h.state = nil
	next, err := state.transition(event, h.verihash)
	if err != nil {
		return err
	}
	h.state = next
	return nil
}

// Digest returns the transcript digest of the elements hashed so far. It
// fails if the hasher has failed or an element is still in progress, so a
// digest can never describe half an element.
func (h *SequenceHasher) Digest() (verihash.Digest, error) {
	if h.state == nil {
		return verihash.Digest{}, ErrAlreadyFailed
	}
	if !h.state.idle() {
		return verihash.Digest{}, fmt.Errorf(
			"%w: digest requested with an element in progress",
			ErrHashing,
		)
	}
	return h.verihash.Sum(), nil
}

func (s *sequenceHasherState) transition(
	event Event,
	vh *verihash.Hasher,
) (*sequenceHasherState, error) {
	switch ev := event.(type) {
	case UInt64Event:
		return s.fixedSizeElement(field.WireTypeUInt64, uint64LE(ev.Value), vh)
	case SInt64Event:
		return s.fixedSizeElement(
			field.WireTypeSInt64,
			uint64LE(uint64(ev.Value)),
			vh,
		)
	case LengthDelimiterEvent:
		if !s.idle() {
			return nil, fmt.Errorf(
				"%w: length delimiter before previous element completed",
				ErrHashing,
			)
		}
		switch ev.WireType {
		case field.WireTypeBytes, field.WireTypeString, field.WireTypeMessage:
			// allowed element wire types
		default:
			return nil, fmt.Errorf(
				"%w: length delimiter for %s element",
				ErrHashing,
				ev.WireType,
			)
		}
		if ev.Length < 0 {
			return nil, fmt.Errorf(
				"%w: negative element length %d",
				ErrHashing,
				ev.Length,
			)
		}
		vh.DynamicallySizedValue(uint8(ev.WireType), uint64(ev.Length))
		return &sequenceHasherState{
			wireType:  ev.WireType,
			remaining: ev.Length,
		}, nil
	case ValueChunkEvent:
		if s.idle() {
			return nil, fmt.Errorf(
				"%w: value chunk with no element in progress",
				ErrHashing,
			)
		}
		if ev.WireType != s.wireType {
			return nil, fmt.Errorf(
				"%w: value chunk wire type %s does not match %s",
				ErrHashing,
				ev.WireType,
				s.wireType,
			)
		}
		if len(ev.Bytes) > s.remaining ||
			s.remaining-len(ev.Bytes) != ev.Remaining {
			return nil, fmt.Errorf(
				"%w: chunk of %d bytes with %d claimed remaining does not advance %d remaining",
				ErrHashing,
				len(ev.Bytes),
				ev.Remaining,
				s.remaining,
			)
		}
		vh.Input(ev.Bytes)
		if ev.Remaining == 0 {
			return &sequenceHasherState{}, nil
		}
		return &sequenceHasherState{
			wireType:  s.wireType,
			remaining: ev.Remaining,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unexpected event %T", ErrHashing, event)
	}
}

func (s *sequenceHasherState) fixedSizeElement(
	wireType field.WireType,
	value [8]byte,
	vh *verihash.Hasher,
) (*sequenceHasherState, error) {
	if !s.idle() {
		return nil, fmt.Errorf(
			"%w: %s element before previous element completed",
			ErrHashing,
			wireType,
		)
	}
	vh.FixedSizeValue(uint8(wireType), value)
	return &sequenceHasherState{}, nil
}
