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

// Package field provides the primitives shared by every encoded field: tags,
// wire types, and the packed headers that carry them.
package field

import (
	"errors"
	"fmt"
)

// Tag identifies a field within a message. Fields are encoded in strictly
// ascending tag order, so a message can carry each tag at most once.
type Tag uint64

// MaxTag is the largest usable tag. A header packs the tag and wire type
// into a single 64-bit value, leaving 60 bits for the tag.
const MaxTag Tag = 1<<60 - 1

// WireType identifies how a field value is encoded on the wire. Wire type
// values 0, 1, and 8 through 15 are reserved and rejected during decoding.
type WireType uint8

const (
	// WireTypeUInt64 is an unsigned 64-bit integer, encoded as a bare vint64
	WireTypeUInt64 WireType = 2
	// WireTypeSInt64 is a signed 64-bit integer, encoded as a zigzag vint64
	WireTypeSInt64 WireType = 3
	// WireTypeBytes is a length-delimited binary payload
	WireTypeBytes WireType = 4
	// WireTypeString is a length-delimited UTF-8 payload
	WireTypeString WireType = 5
	// WireTypeMessage is a length-delimited nested message
	WireTypeMessage WireType = 6
	// WireTypeSequence is a length-delimited run of values sharing one wire
	// type
	WireTypeSequence WireType = 7
)

var (
	// ErrWireType is returned when a header carries a reserved wire type
	// value.
	ErrWireType = errors.New("field: invalid wire type")
	// ErrTagRange is returned when a tag is too large to pack into a header.
	ErrTagRange = errors.New("field: tag out of range")
)

// Valid reports whether w is a member of the wire type set.
func (w WireType) Valid() bool {
	return w >= WireTypeUInt64 && w <= WireTypeSequence
}

// IsDynamicallySized reports whether values of this wire type are encoded as
// an explicit byte length followed by that many payload bytes.
func (w WireType) IsDynamicallySized() bool {
	switch w {
	case WireTypeBytes, WireTypeString, WireTypeMessage, WireTypeSequence:
		return true
	default:
		return false
	}
}

func (w WireType) String() string {
	switch w {
	case WireTypeUInt64:
		return "uint64"
	case WireTypeSInt64:
		return "sint64"
	case WireTypeBytes:
		return "bytes"
	case WireTypeString:
		return "string"
	case WireTypeMessage:
		return "message"
	case WireTypeSequence:
		return "sequence"
	default:
		return fmt.Sprintf("invalid (%d)", uint8(w))
	}
}
