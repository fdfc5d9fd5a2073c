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

// frame decodes the fields of a single message nesting level. It enforces
// the ascending-tag ordering, counts the bytes it consumes, and folds every
// event it produces into its own content transcript.
type frame struct {
	dec    *Decoder
	hasher *messageHasher
	// lastTag is the most recently consumed tag, valid once started is set
	lastTag  field.Tag
	started  bool
	position int
}

func newFrame(dec *Decoder) *frame {
	return &frame{
		dec:    dec,
		hasher: newMessageHasher(dec.newVerihash()),
	}
}

// emit folds an event into the frame transcript and then hands it to the
// decoder's observer, so both always see the same stream
func (f *frame) emit(event Event) error {
	if err := f.hasher.hashEvent(event); err != nil {
		return err
	}
	f.dec.observe(event)
	return nil
}

func (f *frame) digest() (verihash.Digest, error) {
	return f.hasher.digest()
}

// decodeAnyHeader reads whatever field header comes next, enforcing only
// the ascending-tag ordering
func (f *frame) decodeAnyHeader(input *[]byte) (field.Header, error) {
	before := len(*input)
	header, err := field.DecodeHeader(input)
	if err != nil {
		return field.Header{}, mapDecodeError(err)
	}
	if f.started && header.Tag <= f.lastTag {
		return field.Header{}, fmt.Errorf(
			"%w: tag %d after tag %d breaks ascending tag order",
			ErrHeaderMismatch,
			header.Tag,
			f.lastTag,
		)
	}
	f.position += before - len(*input)
	f.lastTag = header.Tag
	f.started = true
	if err := f.emit(HeaderEvent{Header: header}); err != nil {
		return field.Header{}, err
	}
	return header, nil
}

// expectHeader matches the next field header against a requested tag and
// wire type. When the frame is exhausted, or the next header's tag is past
// the requested one, the requested field was never encoded: expectHeader
// reports ok=false with no error and consumes nothing, and the caller skips
// the field. Any other disagreement is a hard ErrHeaderMismatch.
func (f *frame) expectHeader(
	input *[]byte,
	tag field.Tag,
	wireType field.WireType,
) (bool, error) {
	if len(*input) == 0 {
		return false, nil
	}
	peek := *input
	peeked, err := field.DecodeHeader(&peek)
	if err != nil {
		return false, mapDecodeError(err)
	}
	if peeked.Tag > tag && (!f.started || peeked.Tag > f.lastTag) {
		// Field absent: the well-ordered part of the stream is already past
		// the requested tag
		return false, nil
	}
	header, err := f.decodeAnyHeader(input)
	if err != nil {
		return false, err
	}
	if header.Tag < tag {
		return false, fmt.Errorf(
			"%w: unknown field with tag %d before requested tag %d",
			ErrHeaderMismatch,
			header.Tag,
			tag,
		)
	}
	if header.WireType != wireType {
		return false, fmt.Errorf(
			"%w: field %d has wire type %s, expected %s",
			ErrHeaderMismatch,
			header.Tag,
			header.WireType,
			wireType,
		)
	}
	return true, nil
}

func (f *frame) decodeUInt64(input *[]byte) (uint64, error) {
	before := len(*input)
	value, err := vint64.Decode(input)
	if err != nil {
		return 0, mapDecodeError(err)
	}
	f.position += before - len(*input)
	if err := f.emit(UInt64Event{Value: value}); err != nil {
		return 0, err
	}
	return value, nil
}

func (f *frame) decodeSInt64(input *[]byte) (int64, error) {
	before := len(*input)
	value, err := vint64.DecodeSigned(input)
	if err != nil {
		return 0, mapDecodeError(err)
	}
	f.position += before - len(*input)
	if err := f.emit(SInt64Event{Value: value}); err != nil {
		return 0, err
	}
	return value, nil
}

func (f *frame) decodeBytes(input *[]byte) ([]byte, error) {
	return f.decodeLengthDelimited(input, field.WireTypeBytes)
}

func (f *frame) decodeString(input *[]byte) ([]byte, error) {
	value, err := f.decodeLengthDelimited(input, field.WireTypeString)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(value) {
		return nil, fmt.Errorf("%w: tag %d", ErrInvalidText, f.lastTag)
	}
	return value, nil
}

func (f *frame) decodeMessage(input *[]byte) ([]byte, error) {
	return f.decodeLengthDelimited(input, field.WireTypeMessage)
}

func (f *frame) decodeSequence(input *[]byte) ([]byte, error) {
	return f.decodeLengthDelimited(input, field.WireTypeSequence)
}

// decodeLengthDelimited reads a length delimiter and then the payload it
// declares, returning the payload as a view into the input buffer. The
// declared length is checked against the remaining input before the
// delimiter event is emitted, so a transcript never commits to a length the
// input cannot satisfy.
func (f *frame) decodeLengthDelimited(
	input *[]byte,
	wireType field.WireType,
) ([]byte, error) {
	before := len(*input)
	length64, err := vint64.Decode(input)
	if err != nil {
		return nil, mapDecodeError(err)
	}
	if length64 > uint64(len(*input)) {
		return nil, fmt.Errorf(
			"%w: %s value of %d bytes declared with %d bytes left",
			ErrTruncatedInput,
			wireType,
			length64,
			len(*input),
		)
	}
	length := int(length64)
	f.position += before - len(*input) + length
	if err := f.emit(
		LengthDelimiterEvent{WireType: wireType, Length: length},
	); err != nil {
		return nil, err
	}
	value := (*input)[:length]
	*input = (*input)[length:]
	if err := f.emit(
		ValueChunkEvent{WireType: wireType, Bytes: value, Remaining: 0},
	); err != nil {
		return nil, err
	}
	return value, nil
}
