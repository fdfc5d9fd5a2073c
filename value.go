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
	"github.com/blinklabs-io/goveriform/field"
	"github.com/blinklabs-io/goveriform/verihash"

	_cbor "github.com/fxamacker/cbor/v2"
)

// Value is a single field decoded without schema knowledge. The
// self-describing headers make a structural walk possible on their own:
// scalars land in UInt64 or SInt64, binary and string payloads land in
// Bytes, and nested messages are walked recursively into Fields. Sequence
// regions stay opaque in Bytes, since element types are schema knowledge.
type Value struct {
	Tag      field.Tag      `cbor:"0,keyasint"`
	WireType field.WireType `cbor:"1,keyasint"`
	UInt64   uint64         `cbor:"2,keyasint,omitempty"`
	SInt64   int64          `cbor:"3,keyasint,omitempty"`
	Bytes    []byte         `cbor:"4,keyasint,omitempty"`
	Fields   []Value        `cbor:"5,keyasint,omitempty"`
}

// MarshalCBOR returns a deterministic CBOR encoding of the value
func (v Value) MarshalCBOR() ([]byte, error) {
	opts := _cbor.EncOptions{
		// Make sure that maps have ordered keys
		Sort: _cbor.SortCoreDeterministic,
	}
	em, err := opts.EncMode()
	if err != nil {
		return nil, err
	}
	// Type alias to bypass this function during marshaling
	type tValue Value
	return em.Marshal(tValue(v))
}

// DecodeValue decodes data as a message without any schema, returning its
// fields in wire order. Byte, string, and sequence values are views into
// data.
func DecodeValue(
	data []byte,
	options ...DecoderOptionFunc,
) ([]Value, error) {
	dec := NewDecoder(options...)
	return dec.decodeValues(data)
}

// Transcript computes the content transcript digest of a message without
// any schema. The result is identical to the digest produced by a typed
// decode of the same bytes.
func Transcript(
	data []byte,
	options ...DecoderOptionFunc,
) (verihash.Digest, error) {
	dec := NewDecoder(options...)
	if _, err := dec.decodeValues(data); err != nil {
		return verihash.Digest{}, err
	}
	return dec.Digest()
}

// decodeValues walks one message level through the innermost frame,
// recursing into nested messages through the frame stack so that depth
// stays bounded and every level's events are hashed exactly as a typed
// decode would hash them
func (d *Decoder) decodeValues(input []byte) ([]Value, error) {
	var values []Value
	for len(input) > 0 {
		header, err := d.peek().decodeAnyHeader(&input)
		if err != nil {
			return nil, err
		}
		value := Value{Tag: header.Tag, WireType: header.WireType}
		switch header.WireType {
		case field.WireTypeUInt64:
			value.UInt64, err = d.peek().decodeUInt64(&input)
		case field.WireTypeSInt64:
			value.SInt64, err = d.peek().decodeSInt64(&input)
		case field.WireTypeBytes:
			value.Bytes, err = d.peek().decodeBytes(&input)
		case field.WireTypeString:
			value.Bytes, err = d.peek().decodeString(&input)
		case field.WireTypeSequence:
			value.Bytes, err = d.peek().decodeSequence(&input)
		case field.WireTypeMessage:
			var region []byte
			region, err = d.peek().decodeMessage(&input)
			if err == nil {
				if err = d.Push(); err == nil {
					value.Fields, err = d.decodeValues(region)
					d.Pop()
				}
			}
		}
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}
