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

// Package verihash implements the content hashing scheme used to build
// digests of decoded messages and sequences.
//
// A Hasher accumulates structured commitments rather than raw bytes: field
// tags, fixed-size values, and the declared lengths of dynamically sized
// values are each absorbed in a framed form, so the resulting digest is
// bound to the structure of the content and not merely its serialization.
// The default hash function is BLAKE2b-256.
package verihash

import (
	"encoding/binary"
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// tagMarker prefixes a tag commitment, separating it from value commitments
const tagMarker = 'T'

// Hasher accumulates the content of a single message or sequence into a
// digest. It is not safe for concurrent use.
type Hasher struct {
	hash hash.Hash
}

// New returns a Hasher backed by BLAKE2b-256
func New() *Hasher {
	tmpHash, err := blake2b.New256(nil)
	if err != nil {
		panic(
			fmt.Sprintf("unexpected error generating empty blake2b hash: %s", err),
		)
	}
	return &Hasher{hash: tmpHash}
}

// NewWithHash returns a Hasher backed by the provided hash function. The
// hash should produce sums of DigestSize bytes: longer sums are truncated
// and shorter sums are zero-padded.
func NewWithHash(h hash.Hash) *Hasher {
	return &Hasher{hash: h}
}

// Tag commits a field tag
func (h *Hasher) Tag(tag uint64) {
	var buf [9]byte
	buf[0] = tagMarker
	binary.LittleEndian.PutUint64(buf[1:], tag)
	h.hash.Write(buf[:])
}

// FixedSizeValue commits a fixed-size value: its wire type followed by its
// 8-byte little-endian representation
func (h *Hasher) FixedSizeValue(wireType uint8, value [8]byte) {
	var buf [9]byte
	buf[0] = wireType
	copy(buf[1:], value[:])
	h.hash.Write(buf[:])
}

// DynamicallySizedValue commits the wire type and declared byte length of a
// dynamically sized value, binding the digest to the length before any of
// the payload is absorbed
func (h *Hasher) DynamicallySizedValue(wireType uint8, length uint64) {
	var buf [9]byte
	buf[0] = wireType
	binary.LittleEndian.PutUint64(buf[1:], length)
	h.hash.Write(buf[:])
}

// Input absorbs payload bytes of the value most recently committed with
// DynamicallySizedValue
func (h *Hasher) Input(data []byte) {
	h.hash.Write(data)
}

// Sum returns the digest of everything absorbed so far. The Hasher remains
// usable afterwards.
func (h *Hasher) Sum() Digest {
	return NewDigest(h.hash.Sum(nil))
}
