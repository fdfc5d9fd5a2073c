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
	"log/slog"

	"github.com/blinklabs-io/goveriform/field"
	"github.com/blinklabs-io/goveriform/verihash"
)

// MaxDepth is the maximum number of open message nesting levels, including
// the outermost message. It bounds decoder memory against adversarially
// nested input.
const MaxDepth = 16

// Decoder decodes the fields of a message and any messages nested within
// it. Nesting is tracked with an explicit bounded stack of frames rather
// than unbounded recursion: the outermost message occupies the root frame,
// and each nested message pushes a frame for the duration of its decoding.
// Each frame computes the content transcript of its own level.
//
// A Decoder is single-use and not safe for concurrent use. Once any
// operation returns an error the decoder must be discarded.
type Decoder struct {
	stack     []*frame
	newHash   func() hash.Hash
	logger    *slog.Logger
	eventFunc EventFunc
}

// NewDecoder returns a Decoder with the root frame already installed
func NewDecoder(options ...DecoderOptionFunc) *Decoder {
	d := &Decoder{}
	// Apply provided options
	for _, option := range options {
		option(d)
	}
	d.stack = make([]*frame, 0, MaxDepth)
	d.stack = append(d.stack, newFrame(d))
	return d
}

// Push opens a new nesting level. It fails with ErrNestingDepth when the
// stack is already at MaxDepth, leaving the decoder unchanged.
func (d *Decoder) Push() error {
	if len(d.stack) >= MaxDepth {
		return fmt.Errorf("%w: %d frames", ErrNestingDepth, len(d.stack))
	}
	d.stack = append(d.stack, newFrame(d))
	return nil
}

// Pop closes the innermost nesting level. Popping the root frame is a bug
// in the calling code and panics.
func (d *Decoder) Pop() {
	if len(d.stack) <= 1 {
		panic("veriform: decoder frame stack underflow")
	}
	d.stack[len(d.stack)-1] = nil
	d.stack = d.stack[:len(d.stack)-1]
}

// Depth returns the number of open nesting levels, including the root
func (d *Decoder) Depth() int {
	return len(d.stack)
}

// peek returns the innermost frame
func (d *Decoder) peek() *frame {
	return d.stack[len(d.stack)-1]
}

// Digest returns the content transcript digest of the outermost message,
// covering every field decoded so far at that level
func (d *Decoder) Digest() (verihash.Digest, error) {
	return d.stack[0].digest()
}

// DecodeUInt64 decodes the unsigned integer field with the given tag. It
// reports ok=false with no error and consumes nothing when the field is
// absent.
func (d *Decoder) DecodeUInt64(
	tag field.Tag,
	input *[]byte,
) (uint64, bool, error) {
	d.trace("uint64", tag)
	ok, err := d.peek().expectHeader(input, tag, field.WireTypeUInt64)
	if err != nil || !ok {
		return 0, false, err
	}
	value, err := d.peek().decodeUInt64(input)
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}

// DecodeSInt64 decodes the signed integer field with the given tag. It
// reports ok=false with no error and consumes nothing when the field is
// absent.
func (d *Decoder) DecodeSInt64(
	tag field.Tag,
	input *[]byte,
) (int64, bool, error) {
	d.trace("sint64", tag)
	ok, err := d.peek().expectHeader(input, tag, field.WireTypeSInt64)
	if err != nil || !ok {
		return 0, false, err
	}
	value, err := d.peek().decodeSInt64(input)
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}

// DecodeBytes decodes the binary field with the given tag. The returned
// slice is a view into the input buffer, valid for the lifetime of the
// input. It reports ok=false with no error and consumes nothing when the
// field is absent.
func (d *Decoder) DecodeBytes(
	tag field.Tag,
	input *[]byte,
) ([]byte, bool, error) {
	d.trace("bytes", tag)
	ok, err := d.peek().expectHeader(input, tag, field.WireTypeBytes)
	if err != nil || !ok {
		return nil, false, err
	}
	value, err := d.peek().decodeBytes(input)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// DecodeString decodes the string field with the given tag, returning its
// UTF-8 validated contents as a view into the input buffer. It reports
// ok=false with no error and consumes nothing when the field is absent.
func (d *Decoder) DecodeString(
	tag field.Tag,
	input *[]byte,
) ([]byte, bool, error) {
	d.trace("string", tag)
	ok, err := d.peek().expectHeader(input, tag, field.WireTypeString)
	if err != nil || !ok {
		return nil, false, err
	}
	value, err := d.peek().decodeString(input)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// DecodeMessage decodes the nested message field with the given tag into
// message, pushing a frame for the duration of the nested decode. It
// reports ok=false with no error and consumes nothing when the field is
// absent.
func (d *Decoder) DecodeMessage(
	tag field.Tag,
	input *[]byte,
	message Message,
) (bool, error) {
	d.trace("message", tag)
	ok, err := d.peek().expectHeader(input, tag, field.WireTypeMessage)
	if err != nil || !ok {
		return false, err
	}
	region, err := d.peek().decodeMessage(input)
	if err != nil {
		return false, err
	}
	if err := d.decodeNested(region, message); err != nil {
		return false, err
	}
	return true, nil
}

// decodeNested runs a schema decode of region inside a fresh frame. The
// frame is popped on every path out, so pushes and pops stay balanced even
// when the nested decode fails.
func (d *Decoder) decodeNested(region []byte, message Message) error {
	if err := d.Push(); err != nil {
		return err
	}
	err := message.DecodeFields(d, region)
	if err == nil && d.peek().position != len(region) {
		err = fmt.Errorf(
			"%w: message schema decoded %d of %d bytes",
			ErrTrailingBytes,
			d.peek().position,
			len(region),
		)
	}
	d.Pop()
	return err
}

// DecodeUInt64Seq decodes the sequence field with the given tag as a lazy
// iterator over unsigned integer elements. It reports ok=false with no
// error and consumes nothing when the field is absent.
func (d *Decoder) DecodeUInt64Seq(
	tag field.Tag,
	input *[]byte,
) (*SequenceIter[uint64], bool, error) {
	region, ok, err := d.decodeSequenceRegion(tag, input)
	if err != nil || !ok {
		return nil, false, err
	}
	seq := newSequenceDecoder(d, region)
	return newSequenceIter(seq, (*sequenceDecoder).decodeUInt64), true, nil
}

// DecodeSInt64Seq decodes the sequence field with the given tag as a lazy
// iterator over signed integer elements. It reports ok=false with no error
// and consumes nothing when the field is absent.
func (d *Decoder) DecodeSInt64Seq(
	tag field.Tag,
	input *[]byte,
) (*SequenceIter[int64], bool, error) {
	region, ok, err := d.decodeSequenceRegion(tag, input)
	if err != nil || !ok {
		return nil, false, err
	}
	seq := newSequenceDecoder(d, region)
	return newSequenceIter(seq, (*sequenceDecoder).decodeSInt64), true, nil
}

// DecodeBytesSeq decodes the sequence field with the given tag as a lazy
// iterator over binary elements. Elements are views into the input buffer.
// It reports ok=false with no error and consumes nothing when the field is
// absent.
func (d *Decoder) DecodeBytesSeq(
	tag field.Tag,
	input *[]byte,
) (*SequenceIter[[]byte], bool, error) {
	region, ok, err := d.decodeSequenceRegion(tag, input)
	if err != nil || !ok {
		return nil, false, err
	}
	seq := newSequenceDecoder(d, region)
	return newSequenceIter(seq, (*sequenceDecoder).decodeBytes), true, nil
}

// DecodeStringSeq decodes the sequence field with the given tag as a lazy
// iterator over UTF-8 validated string elements. Elements are views into
// the input buffer. It reports ok=false with no error and consumes nothing
// when the field is absent.
func (d *Decoder) DecodeStringSeq(
	tag field.Tag,
	input *[]byte,
) (*SequenceIter[[]byte], bool, error) {
	region, ok, err := d.decodeSequenceRegion(tag, input)
	if err != nil || !ok {
		return nil, false, err
	}
	seq := newSequenceDecoder(d, region)
	return newSequenceIter(seq, (*sequenceDecoder).decodeString), true, nil
}

// DecodeMessageSeq decodes the sequence field with the given tag as a lazy
// iterator over message elements. newElem is called once per element to
// allocate the message the element decodes into; each element is decoded in
// its own frame. It reports ok=false with no error and consumes nothing
// when the field is absent.
func (d *Decoder) DecodeMessageSeq(
	tag field.Tag,
	input *[]byte,
	newElem func() Message,
) (*SequenceIter[Message], bool, error) {
	region, ok, err := d.decodeSequenceRegion(tag, input)
	if err != nil || !ok {
		return nil, false, err
	}
	seq := newSequenceDecoder(d, region)
	decodeElem := func(s *sequenceDecoder) (Message, error) {
		return s.decodeMessage(newElem)
	}
	return newSequenceIter(seq, decodeElem), true, nil
}

func (d *Decoder) decodeSequenceRegion(
	tag field.Tag,
	input *[]byte,
) ([]byte, bool, error) {
	d.trace("sequence", tag)
	ok, err := d.peek().expectHeader(input, tag, field.WireTypeSequence)
	if err != nil || !ok {
		return nil, false, err
	}
	region, err := d.peek().decodeSequence(input)
	if err != nil {
		return nil, false, err
	}
	return region, true, nil
}

func (d *Decoder) newVerihash() *verihash.Hasher {
	if d.newHash == nil {
		return verihash.New()
	}
	return verihash.NewWithHash(d.newHash())
}

func (d *Decoder) observe(event Event) {
	if d.eventFunc != nil {
		d.eventFunc(event)
	}
}

func (d *Decoder) trace(wireType string, tag field.Tag) {
	if d.logger != nil {
		d.logger.Debug(
			"decode field",
			"wiretype", wireType,
			"tag", uint64(tag),
			"depth", len(d.stack),
		)
	}
}
