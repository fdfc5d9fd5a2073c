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
	"github.com/blinklabs-io/goveriform/vint64"
)

// Encoder builds the canonical encoding of a single message. Fields must be
// appended in strictly ascending tag order; the encoder rejects any tag
// that is not greater than the last one written. Nothing is appended to the
// output when an operation fails.
type Encoder struct {
	buf     []byte
	lastTag field.Tag
	started bool
}

func NewEncoder() *Encoder {
	return &Encoder{}
}

// Finish returns the encoded message
func (e *Encoder) Finish() []byte {
	return e.buf
}

// UInt64 appends an unsigned integer field
func (e *Encoder) UInt64(tag field.Tag, value uint64) error {
	if err := e.appendHeader(tag, field.WireTypeUInt64); err != nil {
		return err
	}
	e.buf = vint64.Append(e.buf, value)
	return nil
}

// SInt64 appends a signed integer field
func (e *Encoder) SInt64(tag field.Tag, value int64) error {
	if err := e.appendHeader(tag, field.WireTypeSInt64); err != nil {
		return err
	}
	e.buf = vint64.AppendSigned(e.buf, value)
	return nil
}

// Bytes appends a binary field
func (e *Encoder) Bytes(tag field.Tag, value []byte) error {
	if err := e.appendHeader(tag, field.WireTypeBytes); err != nil {
		return err
	}
	e.appendLengthDelimited(value)
	return nil
}

// String appends a string field. The value must be valid UTF-8.
func (e *Encoder) String(tag field.Tag, value string) error {
	if !utf8.ValidString(value) {
		return fmt.Errorf("%w: tag %d", ErrInvalidText, tag)
	}
	if err := e.appendHeader(tag, field.WireTypeString); err != nil {
		return err
	}
	e.appendLengthDelimited([]byte(value))
	return nil
}

// Message appends a nested message field. The message is encoded first so
// that a failing schema encode leaves the output untouched.
func (e *Encoder) Message(tag field.Tag, message Message) error {
	region, err := encodeRegion(message)
	if err != nil {
		return err
	}
	if err := e.appendHeader(tag, field.WireTypeMessage); err != nil {
		return err
	}
	e.appendLengthDelimited(region)
	return nil
}

// UInt64Seq appends a sequence field of unsigned integer elements
func (e *Encoder) UInt64Seq(tag field.Tag, values []uint64) error {
	var region []byte
	for _, value := range values {
		region = vint64.Append(region, value)
	}
	return e.sequence(tag, region)
}

// SInt64Seq appends a sequence field of signed integer elements
func (e *Encoder) SInt64Seq(tag field.Tag, values []int64) error {
	var region []byte
	for _, value := range values {
		region = vint64.AppendSigned(region, value)
	}
	return e.sequence(tag, region)
}

// BytesSeq appends a sequence field of binary elements
func (e *Encoder) BytesSeq(tag field.Tag, values [][]byte) error {
	var region []byte
	for _, value := range values {
		region = vint64.Append(region, uint64(len(value)))
		region = append(region, value...)
	}
	return e.sequence(tag, region)
}

// StringSeq appends a sequence field of string elements. Every value must
// be valid UTF-8.
func (e *Encoder) StringSeq(tag field.Tag, values []string) error {
	var region []byte
	for _, value := range values {
		if !utf8.ValidString(value) {
			return fmt.Errorf("%w: tag %d", ErrInvalidText, tag)
		}
		region = vint64.Append(region, uint64(len(value)))
		region = append(region, value...)
	}
	return e.sequence(tag, region)
}

// MessageSeq appends a sequence field of message elements
func (e *Encoder) MessageSeq(tag field.Tag, messages []Message) error {
	var region []byte
	for _, message := range messages {
		elem, err := encodeRegion(message)
		if err != nil {
			return err
		}
		region = vint64.Append(region, uint64(len(elem)))
		region = append(region, elem...)
	}
	return e.sequence(tag, region)
}

func (e *Encoder) sequence(tag field.Tag, region []byte) error {
	if err := e.appendHeader(tag, field.WireTypeSequence); err != nil {
		return err
	}
	e.appendLengthDelimited(region)
	return nil
}

func (e *Encoder) appendHeader(tag field.Tag, wireType field.WireType) error {
	if e.started && tag <= e.lastTag {
		return fmt.Errorf(
			"%w: tag %d after tag %d breaks ascending tag order",
			ErrHeaderMismatch,
			tag,
			e.lastTag,
		)
	}
	buf, err := field.AppendHeader(e.buf, field.Header{
		Tag:      tag,
		WireType: wireType,
	})
	if err != nil {
		return mapDecodeError(err)
	}
	e.buf = buf
	e.lastTag = tag
	e.started = true
	return nil
}

func (e *Encoder) appendLengthDelimited(value []byte) {
	e.buf = vint64.Append(e.buf, uint64(len(value)))
	e.buf = append(e.buf, value...)
}

// encodeRegion encodes a message with a child encoder and returns the
// encoded bytes
func encodeRegion(message Message) ([]byte, error) {
	child := NewEncoder()
	if err := message.EncodeFields(child); err != nil {
		return nil, err
	}
	return child.Finish(), nil
}
