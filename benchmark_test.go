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

package veriform_test

import (
	"testing"

	veriform "github.com/blinklabs-io/goveriform"
)

func benchRecord(payloadSize int, countLen int) *testRecord {
	payload := make([]byte, payloadSize)
	for i := range payload {
		payload[i] = byte(i)
	}
	counts := make([]uint64, countLen)
	for i := range counts {
		counts[i] = uint64(i) * 7
	}
	return &testRecord{
		Seq:     42,
		Delta:   -7,
		Payload: payload,
		Note:    "benchmark",
		Entry:   &testEntry{ID: 9000, Label: "inner"},
		Counts:  counts,
	}
}

func benchVariants() []struct {
	name   string
	record *testRecord
} {
	return []struct {
		name   string
		record *testRecord
	}{
		{"Small", benchRecord(16, 4)},
		{"LargePayload", benchRecord(64*1024, 4)},
		{"LongSequence", benchRecord(16, 4096)},
	}
}

// BenchmarkDecode benchmarks a typed decode with transcript hashing.
func BenchmarkDecode(b *testing.B) {
	for _, variant := range benchVariants() {
		b.Run(variant.name, func(b *testing.B) {
			data, err := veriform.Encode(variant.record)
			if err != nil {
				b.Fatalf("unexpected error encoding record: %s", err)
			}
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			b.ResetTimer()
			for b.Loop() {
				decoded := &testRecord{}
				if _, err := veriform.Decode(data, decoded); err != nil {
					b.Fatalf("unexpected error decoding record: %s", err)
				}
			}
		})
	}
}

// BenchmarkTranscript benchmarks the schema-less transcript walk.
func BenchmarkTranscript(b *testing.B) {
	for _, variant := range benchVariants() {
		b.Run(variant.name, func(b *testing.B) {
			data, err := veriform.Encode(variant.record)
			if err != nil {
				b.Fatalf("unexpected error encoding record: %s", err)
			}
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			b.ResetTimer()
			for b.Loop() {
				if _, err := veriform.Transcript(data); err != nil {
					b.Fatalf("unexpected error hashing record: %s", err)
				}
			}
		})
	}
}

// BenchmarkEncode benchmarks canonical encoding.
func BenchmarkEncode(b *testing.B) {
	for _, variant := range benchVariants() {
		b.Run(variant.name, func(b *testing.B) {
			data, err := veriform.Encode(variant.record)
			if err != nil {
				b.Fatalf("unexpected error encoding record: %s", err)
			}
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			b.ResetTimer()
			for b.Loop() {
				if _, err := veriform.Encode(variant.record); err != nil {
					b.Fatalf("unexpected error encoding record: %s", err)
				}
			}
		})
	}
}
