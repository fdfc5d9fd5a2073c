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
	"hash"
	"log/slog"
)

// DecoderOptionFunc is a function used to modify a Decoder at creation time
type DecoderOptionFunc func(*Decoder)

// WithNewHash specifies the hash function constructor used for every
// content transcript the decoder creates. The default is BLAKE2b-256.
func WithNewHash(newHash func() hash.Hash) DecoderOptionFunc {
	return func(d *Decoder) {
		d.newHash = newHash
	}
}

// WithLogger enables decode tracing on the provided logger at debug level.
// Tracing never changes decode behavior. The default is no tracing.
func WithLogger(logger *slog.Logger) DecoderOptionFunc {
	return func(d *Decoder) {
		d.logger = logger
	}
}

// WithEventFunc registers an observer that receives every decode event in
// the order produced, after the event has been folded into the content
// transcript
func WithEventFunc(eventFunc EventFunc) DecoderOptionFunc {
	return func(d *Decoder) {
		d.eventFunc = eventFunc
	}
}
