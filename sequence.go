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
	"unicode/utf8"

	"github.com/blinklabs-io/goveriform/field"
	"github.com/blinklabs-io/goveriform/verihash"
	"github.com/blinklabs-io/goveriform/vint64"
)

// sequenceDecoder decodes the elements of a single sequence region,
// folding each element into the sequence content transcript as it is read
type sequenceDecoder struct {
	dec *Decoder
	// input is the unread remainder of the sequence region
	input  []byte
	hasher *SequenceHasher
}

func newSequenceDecoder(dec *Decoder, region []byte) *sequenceDecoder {
	return &sequenceDecoder{
		dec:    dec,
		input:  region,
		hasher: newSequenceHasherWith(dec.newVerihash()),
	}
}

// emit folds an event into the sequence transcript and then hands it to
// the decoder's observer
func (s *sequenceDecoder) emit(event Event) error {
	if err := s.hasher.HashEvent(event); err != nil {
		return err
	}
	s.dec.observe(event)
	return nil
}

func (s *sequenceDecoder) decodeUInt64() (uint64, error) {
	value, err := vint64.Decode(&s.input)
	if err != nil {
		return 0, mapElementError(err)
	}
	if err := s.emit(UInt64Event{Value: value}); err != nil {
		return 0, err
	}
	return value, nil
}

func (s *sequenceDecoder) decodeSInt64() (int64, error) {
	value, err := vint64.DecodeSigned(&s.input)
	if err != nil {
		return 0, mapElementError(err)
	}
	if err := s.emit(SInt64Event{Value: value}); err != nil {
		return 0, err
	}
	return value, nil
}

func (s *sequenceDecoder) decodeBytes() ([]byte, error) {
	return s.decodeLengthDelimited(field.WireTypeBytes)
}

func (s *sequenceDecoder) decodeString() ([]byte, error) {
	value, err := s.decodeLengthDelimited(field.WireTypeString)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(value) {
		return nil, fmt.Errorf("%w: sequence element", ErrInvalidText)
	}
	return value, nil
}

func (s *sequenceDecoder) decodeMessage(newElem func() Message) (Message, error) {
	region, err := s.decodeLengthDelimited(field.WireTypeMessage)
	if err != nil {
		return nil, err
	}
	elem := newElem()
	if err := s.dec.decodeNested(region, elem); err != nil {
		return nil, err
	}
	return elem, nil
}

// decodeLengthDelimited reads one dynamically sized element: its length
// delimiter, then the payload it declares. An element that would run past
// the end of the region fails with ErrSequenceLength before the delimiter
// event is emitted.
func (s *sequenceDecoder) decodeLengthDelimited(
	wireType field.WireType,
) ([]byte, error) {
	length64, err := vint64.Decode(&s.input)
	if err != nil {
		return nil, mapElementError(err)
	}
	if length64 > uint64(len(s.input)) {
		return nil, fmt.Errorf(
			"%w: %s element of %d bytes declared with %d region bytes left",
			ErrSequenceLength,
			wireType,
			length64,
			len(s.input),
		)
	}
	length := int(length64)
	if err := s.emit(
		LengthDelimiterEvent{WireType: wireType, Length: length},
	); err != nil {
		return nil, err
	}
	value := s.input[:length]
	s.input = s.input[length:]
	if err := s.emit(
		ValueChunkEvent{WireType: wireType, Bytes: value, Remaining: 0},
	); err != nil {
		return nil, err
	}
	return value, nil
}

// SequenceIter iterates over the elements of a sequence field, decoding one
// element per Next call. Iteration is single-pass and lazy: elements are
// not decoded until requested, and an iterator cannot be restarted.
//
// The usual loop is:
//
//	for iter.Next() {
//	    use(iter.Value())
//	}
//	if err := iter.Err(); err != nil {
//	    ...
//	}
type SequenceIter[T any] struct {
	seq        *sequenceDecoder
	decodeElem func(*sequenceDecoder) (T, error)
	value      T
	err        error
	done       bool
}

func newSequenceIter[T any](
	seq *sequenceDecoder,
	decodeElem func(*sequenceDecoder) (T, error),
) *SequenceIter[T] {
	return &SequenceIter[T]{
		seq:        seq,
		decodeElem: decodeElem,
	}
}

// Next decodes the next element, reporting whether one was produced. It
// returns false once the sequence is exhausted or an element has failed to
// decode; Err distinguishes the two.
func (it *SequenceIter[T]) Next() bool {
	if it.done || it.err != nil {
		return false
	}
	if len(it.seq.input) == 0 {
		it.done = true
		return false
	}
	value, err := it.decodeElem(it.seq)
	if err != nil {
		it.err = err
		return false
	}
	it.value = value
	return true
}

// Value returns the element decoded by the most recent successful Next call
func (it *SequenceIter[T]) Value() T {
	return it.value
}

// Err returns the error that stopped iteration, if any
func (it *SequenceIter[T]) Err() error {
	return it.err
}

// Digest returns the content transcript digest of the sequence. It is only
// available once every element has been consumed, so a digest always covers
// the whole sequence.
func (it *SequenceIter[T]) Digest() (verihash.Digest, error) {
	if it.err != nil {
		return verihash.Digest{}, it.err
	}
	if !it.done {
		return verihash.Digest{}, fmt.Errorf(
			"%w: %d region bytes not yet consumed",
			ErrSequenceLength,
			len(it.seq.input),
		)
	}
	return it.seq.hasher.Digest()
}
