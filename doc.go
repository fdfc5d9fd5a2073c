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

/*
Package veriform decodes and encodes a cryptographically verifiable,
self-describing binary format built from tagged fields.

A message is a run of fields in strictly ascending tag order. Each field
starts with a header, a single vint64 packing the field's tag and its wire
type, followed by the value. Integers are encoded as vint64 values (zigzag
for signed); bytes, strings, messages, and sequences are length-delimited.
The encoding is canonical: for a given message content there is exactly one
accepted serialization, and the decoder rejects everything else.

# Content transcripts

Decoding is observed. Every decode operation produces a stream of events
(headers, scalar values, length delimiters, payload chunks) that is folded
into a content transcript as it happens, producing a digest of what was
actually decoded rather than of the raw serialization:

	var msg exampleMessage
	digest, err := veriform.Decode(data, &msg)

The same transcript can be computed without a schema using Transcript, so a
verifier can check a digest against bytes it cannot otherwise interpret.
Digests use BLAKE2b-256 unless WithNewHash says otherwise.

# Schema decoding

Message types implement the Message interface. Field decoding is pull
based: the schema asks the decoder for each tag it knows, in order, and
absent optional fields report ok=false rather than an error:

	func (m *exampleMessage) DecodeFields(dec *veriform.Decoder, input []byte) error {
	    cursor := input
	    id, ok, err := dec.DecodeUInt64(1, &cursor)
	    ...
	}

Nested messages decode through a bounded frame stack (MaxDepth levels), so
adversarially nested input cannot exhaust memory or the call stack. Decoded
byte and string values are views into the input buffer: no payload is
copied, and the views are only valid while the input is.

Sequences decode lazily through SequenceIter, one element per Next call,
with the sequence's own transcript available from Digest once the sequence
is fully consumed.

All errors are matched with errors.Is against the package sentinel errors
(ErrTruncatedInput, ErrHeaderMismatch, and friends). Decoding is fail-fast:
after any error the decoder must be discarded, and Decode and Transcript
never produce a digest for input they could not fully decode.

Package field defines tags, wire types, and headers; package vint64 the
integer encoding; package verihash the transcript accumulator and Digest
type.
*/
package veriform
