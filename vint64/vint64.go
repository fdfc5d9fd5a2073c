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

// Package vint64 implements the prefixed variable-length integer encoding
// used throughout the wire format for field headers, value lengths, and
// unsigned scalars.
//
// The count of trailing zero bits in the first byte determines the total
// encoded length, so the length of any value is known from its first byte
// alone. One through eight byte encodings hold the value shifted left past
// the length prefix, little-endian. A first byte of zero marks the nine
// byte form: the following eight bytes are the value verbatim,
// little-endian. Every value has exactly one accepted encoding. Decoding
// rejects values encoded with more bytes than required.
package vint64

import (
	"encoding/binary"
	"errors"
	"math/bits"
)

// MaxLen is the maximum length in bytes of an encoded value.
const MaxLen = 9

var (
	// ErrTruncated is returned when the input ends before the encoded value
	// does.
	ErrTruncated = errors.New("vint64: truncated input")
	// ErrNonCanonical is returned when a value is encoded with more bytes
	// than it requires.
	ErrNonCanonical = errors.New("vint64: non-canonical encoding")
)

// EncodedLen returns the number of bytes needed to encode value.
func EncodedLen(value uint64) int {
	length := (bits.Len64(value|1) + 6) / 7
	if length >= MaxLen {
		// Values wider than 56 bits use the 9-byte form
		length = MaxLen
	}
	return length
}

// DecodedLen returns the total encoded length indicated by the first byte of
// an encoded value.
func DecodedLen(first byte) int {
	return bits.TrailingZeros8(first) + 1
}

// Append appends the canonical encoding of value to dst and returns the
// extended slice.
func Append(dst []byte, value uint64) []byte {
	length := EncodedLen(value)
	if length == MaxLen {
		var out [MaxLen]byte
		binary.LittleEndian.PutUint64(out[1:], value)
		return append(dst, out[:]...)
	}
	var out [8]byte
	binary.LittleEndian.PutUint64(out[:], (value<<1|1)<<(length-1))
	return append(dst, out[:length]...)
}

// Encode returns the canonical encoding of value.
func Encode(value uint64) []byte {
	return Append(nil, value)
}

// Decode reads a single encoded value from the start of *input, advancing
// past the bytes consumed. On error *input is left unchanged.
func Decode(input *[]byte) (uint64, error) {
	buf := *input
	if len(buf) == 0 {
		return 0, ErrTruncated
	}
	length := DecodedLen(buf[0])
	if len(buf) < length {
		return 0, ErrTruncated
	}
	var value uint64
	if length == MaxLen {
		value = binary.LittleEndian.Uint64(buf[1:MaxLen])
	} else {
		var tmp [8]byte
		copy(tmp[:], buf[:length])
		value = binary.LittleEndian.Uint64(tmp[:]) >> uint(length)
	}
	if EncodedLen(value) != length {
		return 0, ErrNonCanonical
	}
	*input = buf[length:]
	return value, nil
}
