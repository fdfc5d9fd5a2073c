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
	"encoding/binary"
	"fmt"

	"github.com/blinklabs-io/goveriform/field"
	"github.com/blinklabs-io/goveriform/verihash"
)

// messageHasher folds the event stream of a single message frame into that
// frame's content transcript. Events must arrive in wire order: a header,
// then its value, repeated. Any event that is inconsistent with the current
// state permanently fails the hasher.
type messageHasher struct {
	verihash *verihash.Hasher
	// state is consumed on every event and nil once the hasher has failed
	state *messageHasherState
}

// messageHasherState is the hasher's position within the current field. The
// zero value means no field is in progress.
type messageHasherState struct {
	// header is set after a header event until the field's value completes
	header *field.Header
	// wireType and remaining track a dynamically sized value in progress
	wireType  field.WireType
	remaining int
}

func newMessageHasher(h *verihash.Hasher) *messageHasher {
	return &messageHasher{
		verihash: h,
		state:    &messageHasherState{},
	}
}

func (s *messageHasherState) idle() bool {
	return s.header == nil && s.wireType == 0
}

// hashEvent folds a single event into the transcript. The current state is
// taken before the transition runs and only reinstated if the transition
// succeeds, so a rejected event leaves the hasher failed rather than in a
// state that could absorb further events.
func (h *messageHasher) hashEvent(event Event) error {
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

// digest returns the transcript digest. It fails if the hasher has failed or
// a field is still in progress, so a digest can never describe half a field.
func (h *messageHasher) digest() (verihash.Digest, error) {
	if h.state == nil {
		return verihash.Digest{}, ErrAlreadyFailed
	}
	if !h.state.idle() {
		return verihash.Digest{}, fmt.Errorf(
			"%w: digest requested with a field in progress",
			ErrHashing,
		)
	}
	return h.verihash.Sum(), nil
}

func (s *messageHasherState) transition(
	event Event,
	vh *verihash.Hasher,
) (*messageHasherState, error) {
	switch ev := event.(type) {
	case HeaderEvent:
		if !s.idle() {
			return nil, fmt.Errorf(
				"%w: header for field %d before previous value completed",
				ErrHashing,
				ev.Header.Tag,
			)
		}
		vh.Tag(uint64(ev.Header.Tag))
		return &messageHasherState{header: &ev.Header}, nil
	case UInt64Event:
		return s.fixedSizeValue(field.WireTypeUInt64, uint64LE(ev.Value), vh)
	case SInt64Event:
		return s.fixedSizeValue(field.WireTypeSInt64, uint64LE(uint64(ev.Value)), vh)
	case LengthDelimiterEvent:
		if s.header == nil {
			return nil, fmt.Errorf(
				"%w: length delimiter without a preceding header",
				ErrHashing,
			)
		}
		if !ev.WireType.IsDynamicallySized() {
			return nil, fmt.Errorf(
				"%w: length delimiter for fixed-size wire type %s",
				ErrHashing,
				ev.WireType,
			)
		}
		if ev.WireType != s.header.WireType {
			return nil, fmt.Errorf(
				"%w: length delimiter wire type %s does not match header wire type %s",
				ErrHashing,
				ev.WireType,
				s.header.WireType,
			)
		}
		if ev.Length < 0 {
			return nil, fmt.Errorf(
				"%w: negative value length %d",
				ErrHashing,
				ev.Length,
			)
		}
		vh.DynamicallySizedValue(uint8(ev.WireType), uint64(ev.Length))
		return &messageHasherState{
			wireType:  ev.WireType,
			remaining: ev.Length,
		}, nil
	case ValueChunkEvent:
		if s.wireType == 0 {
			return nil, fmt.Errorf(
				"%w: value chunk with no value in progress",
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
			return &messageHasherState{}, nil
		}
		return &messageHasherState{
			wireType:  s.wireType,
			remaining: ev.Remaining,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown event %T", ErrHashing, event)
	}
}

func (s *messageHasherState) fixedSizeValue(
	wireType field.WireType,
	value [8]byte,
	vh *verihash.Hasher,
) (*messageHasherState, error) {
	if s.header == nil {
		return nil, fmt.Errorf(
			"%w: %s value without a preceding header",
			ErrHashing,
			wireType,
		)
	}
	if s.header.WireType != wireType {
		return nil, fmt.Errorf(
			"%w: %s value for header with wire type %s",
			ErrHashing,
			wireType,
			s.header.WireType,
		)
	}
	vh.FixedSizeValue(uint8(wireType), value)
	return &messageHasherState{}, nil
}

func uint64LE(value uint64) [8]byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], value)
	return buf
}
