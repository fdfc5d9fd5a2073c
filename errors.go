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
	"errors"
	"fmt"

	"github.com/blinklabs-io/goveriform/field"
	"github.com/blinklabs-io/goveriform/vint64"
)

// Decoding is fail-fast: once any operation returns an error, the decoder
// that produced it is in an unspecified position and must be discarded.
// Errors are matched with errors.Is against the sentinels below.
var (
	// ErrNestingDepth is returned when a message is nested more deeply than
	// the decoder's frame stack allows
	ErrNestingDepth = errors.New("maximum message nesting depth exceeded")
	// ErrHeaderMismatch is returned when a decoded field header does not
	// match what the caller or the ascending-tag ordering requires
	ErrHeaderMismatch = errors.New("unexpected field header")
	// ErrTruncatedInput is returned when the input ends before a declared
	// value does
	ErrTruncatedInput = errors.New("unexpected end of input")
	// ErrInvalidVarint is returned when a variable-length integer is not
	// canonically encoded
	ErrInvalidVarint = errors.New("invalid variable-length integer")
	// ErrInvalidText is returned when a string field contains bytes that are
	// not valid UTF-8
	ErrInvalidText = errors.New("string field is not valid UTF-8")
	// ErrSequenceLength is returned when the contents of a sequence disagree
	// with its declared length
	ErrSequenceLength = errors.New("sequence length does not match contents")
	// ErrTrailingBytes is returned when a message region contains bytes
	// after its last decoded field
	ErrTrailingBytes = errors.New("unconsumed bytes after last field")
	// ErrHashing is returned when an event cannot be folded into a content
	// transcript in the hasher's current state
	ErrHashing = errors.New("event not permitted in current hasher state")
	// ErrAlreadyFailed is returned by every operation on a hasher that has
	// previously rejected an event
	ErrAlreadyFailed = errors.New("hasher has already failed")
)

// mapDecodeError lifts codec-level errors from the vint64 and field packages
// into the package error set
func mapDecodeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, vint64.ErrTruncated):
		return fmt.Errorf("%w: %s", ErrTruncatedInput, err)
	case errors.Is(err, vint64.ErrNonCanonical):
		return fmt.Errorf("%w: %s", ErrInvalidVarint, err)
	case errors.Is(err, field.ErrWireType),
		errors.Is(err, field.ErrTagRange):
		return fmt.Errorf("%w: %s", ErrHeaderMismatch, err)
	default:
		return err
	}
}

// mapElementError is mapDecodeError for errors inside a sequence region,
// where running out of bytes means the region ended mid-element
func mapElementError(err error) error {
	if errors.Is(err, vint64.ErrTruncated) {
		return fmt.Errorf("%w: %s", ErrSequenceLength, err)
	}
	return mapDecodeError(err)
}
