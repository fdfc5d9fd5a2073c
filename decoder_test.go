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

package veriform_test

import (
	"crypto/sha256"
	"io"
	"log/slog"
	"testing"

	veriform "github.com/blinklabs-io/goveriform"
	"github.com/blinklabs-io/goveriform/field"
	"github.com/blinklabs-io/goveriform/internal/test"
	"github.com/blinklabs-io/goveriform/verihash"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// entryHolder wraps a single nested testEntry field
type entryHolder struct {
	Entry *testEntry
}

func (m *entryHolder) DecodeFields(dec *veriform.Decoder, input []byte) error {
	cursor := input
	entry := &testEntry{}
	ok, err := dec.DecodeMessage(1, &cursor, entry)
	if err != nil {
		return err
	}
	if ok {
		m.Entry = entry
	}
	return nil
}

func (m *entryHolder) EncodeFields(enc *veriform.Encoder) error {
	if m.Entry != nil {
		return enc.Message(1, m.Entry)
	}
	return nil
}

func uint64LEBytes(value uint64) [8]byte {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(value >> (8 * i))
	}
	return buf
}

func TestDecodeUInt64Vector(t *testing.T) {
	dec := veriform.NewDecoder()
	cursor := test.DecodeHexString("8a0a55")
	value, ok, err := dec.DecodeUInt64(42, &cursor)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(42), value)
	assert.Len(t, cursor, 0)
	digest, err := dec.Digest()
	require.NoError(t, err)
	vh := verihash.New()
	vh.Tag(42)
	vh.FixedSizeValue(uint8(field.WireTypeUInt64), uint64LEBytes(42))
	assert.Equal(t, vh.Sum(), digest)
}

func TestDecodeSInt64Vector(t *testing.T) {
	dec := veriform.NewDecoder()
	cursor := test.DecodeHexString("ce0aa7")
	value, ok, err := dec.DecodeSInt64(43, &cursor)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(-42), value)
	assert.Len(t, cursor, 0)
	digest, err := dec.Digest()
	require.NoError(t, err)
	vh := verihash.New()
	vh.Tag(43)
	// The transcript commits the decoded value in two's complement, not its
	// zigzag wire form
	vh.FixedSizeValue(
		uint8(field.WireTypeSInt64),
		uint64LEBytes(uint64(value)),
	)
	assert.Equal(t, vh.Sum(), digest)
}

func TestDecodeBytesVector(t *testing.T) {
	dec := veriform.NewDecoder()
	input := test.DecodeHexString("490b6279746573")
	cursor := input
	value, ok, err := dec.DecodeBytes(2, &cursor)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("bytes"), value)
	assert.Len(t, cursor, 0)
	// The returned slice is a view into the input, not a copy
	assert.True(t, &value[0] == &input[2])
	digest, err := dec.Digest()
	require.NoError(t, err)
	vh := verihash.New()
	vh.Tag(2)
	vh.DynamicallySizedValue(uint8(field.WireTypeBytes), 5)
	vh.Input([]byte("bytes"))
	assert.Equal(t, vh.Sum(), digest)
}

func TestDecodeStringVector(t *testing.T) {
	dec := veriform.NewDecoder()
	cursor := test.DecodeHexString("8b0762617a")
	value, ok, err := dec.DecodeString(4, &cursor)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("baz"), value)
	assert.Len(t, cursor, 0)
	digest, err := dec.Digest()
	require.NoError(t, err)
	vh := verihash.New()
	vh.Tag(4)
	vh.DynamicallySizedValue(uint8(field.WireTypeString), 3)
	vh.Input([]byte("baz"))
	assert.Equal(t, vh.Sum(), digest)
}

func TestDecodeMaxTagHeader(t *testing.T) {
	dec := veriform.NewDecoder()
	cursor := test.DecodeHexString("00f2ffffffffffffff01")
	value, ok, err := dec.DecodeUInt64(field.MaxTag, &cursor)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(0), value)
	assert.Len(t, cursor, 0)
}

func TestDecodeEmptyBytesField(t *testing.T) {
	enc := veriform.NewEncoder()
	require.NoError(t, enc.Bytes(1, nil))
	assert.Equal(t, test.DecodeHexString("2901"), enc.Finish())
	dec := veriform.NewDecoder()
	cursor := enc.Finish()
	value, ok, err := dec.DecodeBytes(1, &cursor)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, value, 0)
}

func TestDecodeAbsentField(t *testing.T) {
	// Empty input: every field is absent
	dec := veriform.NewDecoder()
	cursor := []byte{}
	value, ok, err := dec.DecodeUInt64(1, &cursor)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, uint64(0), value)

	// The next header's tag is past the requested one: absent, nothing
	// consumed, and the later field still decodes
	dec = veriform.NewDecoder()
	input := test.DecodeHexString("8a0a55")
	cursor = input
	_, ok, err = dec.DecodeUInt64(7, &cursor)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, cursor, len(input))
	decoded, ok, err := dec.DecodeUInt64(42, &cursor)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(42), decoded)
}

func TestDecodeUnknownTag(t *testing.T) {
	// The stream carries tag 1, the schema only asks for tag 2: the unknown
	// field cannot be skipped without losing transcript coverage
	enc := veriform.NewEncoder()
	require.NoError(t, enc.UInt64(1, 7))
	dec := veriform.NewDecoder()
	cursor := enc.Finish()
	_, _, err := dec.DecodeUInt64(2, &cursor)
	assert.ErrorIs(t, err, veriform.ErrHeaderMismatch)
}

func TestDecodeWrongWireType(t *testing.T) {
	dec := veriform.NewDecoder()
	cursor := test.DecodeHexString("8a0a55")
	_, _, err := dec.DecodeSInt64(42, &cursor)
	assert.ErrorIs(t, err, veriform.ErrHeaderMismatch)
}

func TestDecodeTagOrderViolation(t *testing.T) {
	// Tag 2 followed by tag 1 on the wire
	enc := veriform.NewEncoder()
	require.NoError(t, enc.UInt64(2, 5))
	first := enc.Finish()
	enc = veriform.NewEncoder()
	require.NoError(t, enc.UInt64(1, 7))
	input := test.Concat(first, enc.Finish())

	dec := veriform.NewDecoder()
	cursor := input
	value, ok, err := dec.DecodeUInt64(2, &cursor)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(5), value)
	_, _, err = dec.DecodeUInt64(3, &cursor)
	assert.ErrorIs(t, err, veriform.ErrHeaderMismatch)
}

func TestDecodeTruncatedValue(t *testing.T) {
	// Header only, value missing
	dec := veriform.NewDecoder()
	cursor := test.DecodeHexString("8a0a")
	_, _, err := dec.DecodeUInt64(42, &cursor)
	assert.ErrorIs(t, err, veriform.ErrTruncatedInput)

	// Length delimiter declares five bytes, one follows
	dec = veriform.NewDecoder()
	cursor = test.DecodeHexString("490b62")
	_, _, err = dec.DecodeBytes(2, &cursor)
	assert.ErrorIs(t, err, veriform.ErrTruncatedInput)
}

func TestDecodeNonCanonicalVarint(t *testing.T) {
	// Value 0 padded to two bytes
	dec := veriform.NewDecoder()
	cursor := test.DecodeHexString("8a0a0200")
	_, _, err := dec.DecodeUInt64(42, &cursor)
	assert.ErrorIs(t, err, veriform.ErrInvalidVarint)
}

func TestDecodeInvalidText(t *testing.T) {
	// String field with an invalid UTF-8 byte
	dec := veriform.NewDecoder()
	cursor := test.DecodeHexString("8b0703ff62")
	_, _, err := dec.DecodeString(4, &cursor)
	assert.ErrorIs(t, err, veriform.ErrInvalidText)
}

func TestDecoderDepth(t *testing.T) {
	dec := veriform.NewDecoder()
	assert.Equal(t, 1, dec.Depth())
	for i := 0; i < veriform.MaxDepth-1; i++ {
		require.NoError(t, dec.Push())
	}
	assert.Equal(t, veriform.MaxDepth, dec.Depth())
	err := dec.Push()
	assert.ErrorIs(t, err, veriform.ErrNestingDepth)
	assert.Equal(t, veriform.MaxDepth, dec.Depth())
	for dec.Depth() > 1 {
		dec.Pop()
	}
	assert.PanicsWithValue(
		t,
		"veriform: decoder frame stack underflow",
		func() { dec.Pop() },
	)
}

func TestDecodeNestedDepthBalanced(t *testing.T) {
	enc := veriform.NewEncoder()
	require.NoError(t, enc.Message(1, &testEntry{ID: 1}))
	dec := veriform.NewDecoder()
	cursor := enc.Finish()
	ok, err := dec.DecodeMessage(1, &cursor, &failingMessage{})
	require.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, dec.Depth())
}

func TestDecodeNestedChain(t *testing.T) {
	// MaxDepth levels in total, counting the outermost message
	data, err := veriform.Encode(nestedChain(veriform.MaxDepth - 1))
	require.NoError(t, err)
	decoded := &nestedMessage{}
	_, err = veriform.Decode(data, decoded)
	require.NoError(t, err)
	depth := 0
	for m := decoded.Inner; m != nil; m = m.Inner {
		depth++
	}
	assert.Equal(t, veriform.MaxDepth-1, depth)

	// One level past the limit
	data, err = veriform.Encode(nestedChain(veriform.MaxDepth))
	require.NoError(t, err)
	_, err = veriform.Decode(data, &nestedMessage{})
	assert.ErrorIs(t, err, veriform.ErrNestingDepth)
}

func TestDecodeEvents(t *testing.T) {
	var events []veriform.Event
	record := func(event veriform.Event) {
		events = append(events, event)
	}

	dec := veriform.NewDecoder(veriform.WithEventFunc(record))
	cursor := test.DecodeHexString("8a0a55")
	_, _, err := dec.DecodeUInt64(42, &cursor)
	require.NoError(t, err)
	require.Len(t, events, 2)
	header, ok := events[0].(veriform.HeaderEvent)
	require.True(t, ok)
	assert.Equal(t, field.Tag(42), header.Header.Tag)
	assert.Equal(t, field.WireTypeUInt64, header.Header.WireType)
	assert.Equal(t, veriform.UInt64Event{Value: 42}, events[1])

	events = nil
	dec = veriform.NewDecoder(veriform.WithEventFunc(record))
	cursor = test.DecodeHexString("490b6279746573")
	_, _, err = dec.DecodeBytes(2, &cursor)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(
		t,
		veriform.LengthDelimiterEvent{
			WireType: field.WireTypeBytes,
			Length:   5,
		},
		events[1],
	)
	assert.Equal(
		t,
		veriform.ValueChunkEvent{
			WireType:  field.WireTypeBytes,
			Bytes:     []byte("bytes"),
			Remaining: 0,
		},
		events[2],
	)
}

func TestDecodeWithLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dec := veriform.NewDecoder(veriform.WithLogger(logger))
	cursor := test.DecodeHexString("8a0a55")
	value, ok, err := dec.DecodeUInt64(42, &cursor)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(42), value)
}

func TestDecodeWithNewHash(t *testing.T) {
	dec := veriform.NewDecoder(veriform.WithNewHash(sha256.New))
	cursor := test.DecodeHexString("8a0a55")
	_, _, err := dec.DecodeUInt64(42, &cursor)
	require.NoError(t, err)
	digest, err := dec.Digest()
	require.NoError(t, err)
	vh := verihash.NewWithHash(sha256.New())
	vh.Tag(42)
	vh.FixedSizeValue(uint8(field.WireTypeUInt64), uint64LEBytes(42))
	assert.Equal(t, vh.Sum(), digest)
}

func TestNestedMessageDigestOpaque(t *testing.T) {
	// A parent transcript commits to a nested message as an opaque
	// length-delimited region; the nested message's own transcript lives in
	// the child frame
	entry := &testEntry{ID: 7, Label: "x"}
	region, err := veriform.Encode(entry)
	require.NoError(t, err)
	enc := veriform.NewEncoder()
	require.NoError(t, enc.Message(1, entry))

	holder := &entryHolder{}
	digest, err := veriform.Decode(enc.Finish(), holder)
	require.NoError(t, err)
	require.Equal(t, entry, holder.Entry)

	vh := verihash.New()
	vh.Tag(1)
	vh.DynamicallySizedValue(
		uint8(field.WireTypeMessage),
		uint64(len(region)),
	)
	vh.Input(region)
	assert.Equal(t, vh.Sum(), digest)
}

func TestDecodePoisonCascade(t *testing.T) {
	dec := veriform.NewDecoder()

	// Truncated value: the transcript has committed to the header but the
	// value never arrives
	cursor := test.DecodeHexString("8a0a")
	_, _, err := dec.DecodeUInt64(42, &cursor)
	require.ErrorIs(t, err, veriform.ErrTruncatedInput)

	// Continuing anyway: the next header event arrives with a field still in
	// progress and poisons the hasher
	cursor = test.DecodeHexString("ce0aa7")
	_, _, err = dec.DecodeSInt64(43, &cursor)
	require.ErrorIs(t, err, veriform.ErrHashing)

	// From here on everything fails the same way
	cursor = test.DecodeHexString("0a0b55")
	_, _, err = dec.DecodeUInt64(44, &cursor)
	require.ErrorIs(t, err, veriform.ErrAlreadyFailed)
	_, err = dec.Digest()
	assert.ErrorIs(t, err, veriform.ErrAlreadyFailed)
}
