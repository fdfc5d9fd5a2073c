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

	"github.com/blinklabs-io/goveriform/verihash"
)

// Message is implemented by types that know their own field schema
type Message interface {
	// DecodeFields decodes the message's fields from input, requesting each
	// field from dec in ascending tag order. Implementations keep their own
	// cursor over input, must consume every byte of it, and must leave the
	// decoder's nesting depth as they found it.
	DecodeFields(dec *Decoder, input []byte) error
	// EncodeFields appends the message's fields to enc in ascending tag
	// order
	EncodeFields(enc *Encoder) error
}

// Decode decodes data into message and returns the content transcript
// digest of the outermost message. The entire input must be consumed:
// bytes after the last decoded field fail with ErrTrailingBytes.
func Decode(
	data []byte,
	message Message,
	options ...DecoderOptionFunc,
) (verihash.Digest, error) {
	dec := NewDecoder(options...)
	if err := message.DecodeFields(dec, data); err != nil {
		return verihash.Digest{}, err
	}
	if consumed := dec.stack[0].position; consumed != len(data) {
		return verihash.Digest{}, fmt.Errorf(
			"%w: message schema decoded %d of %d bytes",
			ErrTrailingBytes,
			consumed,
			len(data),
		)
	}
	return dec.Digest()
}

// Encode returns the canonical encoding of message
func Encode(message Message) ([]byte, error) {
	return encodeRegion(message)
}
