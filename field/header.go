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

package field

import (
	"fmt"

	"github.com/blinklabs-io/goveriform/vint64"
)

// wireTypeBits is the width of the wire type portion of a packed header.
const wireTypeBits = 4

// Header describes the field that follows it on the wire: the field's tag
// and the wire type of its value. Headers are encoded as a single vint64
// with the wire type in the low four bits and the tag above it.
type Header struct {
	Tag      Tag
	WireType WireType
}

func (h Header) String() string {
	return fmt.Sprintf("%d:%s", h.Tag, h.WireType)
}

// AppendHeader appends the encoded header to dst and returns the extended
// slice.
func AppendHeader(dst []byte, header Header) ([]byte, error) {
	if header.Tag > MaxTag {
		return nil, fmt.Errorf("%w: %d", ErrTagRange, header.Tag)
	}
	if !header.WireType.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrWireType, uint8(header.WireType))
	}
	packed := uint64(header.Tag)<<wireTypeBits | uint64(header.WireType)
	return vint64.Append(dst, packed), nil
}

// DecodeHeader reads a single field header from the start of *input,
// advancing past the bytes consumed.
func DecodeHeader(input *[]byte) (Header, error) {
	buf := *input
	packed, err := vint64.Decode(&buf)
	if err != nil {
		return Header{}, err
	}
	wireType := WireType(packed & (1<<wireTypeBits - 1))
	if !wireType.Valid() {
		return Header{}, fmt.Errorf("%w: %d", ErrWireType, uint8(wireType))
	}
	*input = buf
	return Header{Tag: Tag(packed >> wireTypeBits), WireType: wireType}, nil
}
