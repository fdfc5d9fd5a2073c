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

package vint64

// Zigzag maps a signed integer onto an unsigned one so that values of small
// magnitude stay small: 0, -1, 1, -2, 2 map to 0, 1, 2, 3, 4.
func Zigzag(value int64) uint64 {
	return uint64((value << 1) ^ (value >> 63))
}

// Unzigzag inverts Zigzag.
func Unzigzag(value uint64) int64 {
	return int64(value>>1) ^ -int64(value&1)
}

// AppendSigned appends the canonical zigzag encoding of value to dst and
// returns the extended slice.
func AppendSigned(dst []byte, value int64) []byte {
	return Append(dst, Zigzag(value))
}

// EncodeSigned returns the canonical zigzag encoding of value.
func EncodeSigned(value int64) []byte {
	return AppendSigned(nil, value)
}

// DecodeSigned reads a single zigzag-encoded value from the start of *input,
// advancing past the bytes consumed. On error *input is left unchanged.
func DecodeSigned(input *[]byte) (int64, error) {
	value, err := Decode(input)
	if err != nil {
		return 0, err
	}
	return Unzigzag(value), nil
}
