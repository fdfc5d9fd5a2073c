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

package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	veriform "github.com/blinklabs-io/goveriform"
	"github.com/blinklabs-io/goveriform/field"

	"github.com/fxamacker/cbor/v2"
)

type dumpFlags struct {
	flagset *flag.FlagSet
	hex     string
	file    string
	cbor    bool
}

func newDumpFlags() *dumpFlags {
	f := &dumpFlags{
		flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.hex,
		"hex",
		"",
		"hex string of the encoded message to dump",
	)
	f.flagset.StringVar(
		&f.file,
		"file",
		"",
		"path of a file containing the encoded message (defaults to stdin)",
	)
	f.flagset.BoolVar(
		&f.cbor,
		"cbor",
		false,
		"also print the decoded fields as deterministic CBOR",
	)
	return f
}

func (f *dumpFlags) readInput() ([]byte, error) {
	if f.hex != "" {
		return hex.DecodeString(strings.TrimSpace(f.hex))
	}
	if f.file != "" {
		return os.ReadFile(f.file)
	}
	return io.ReadAll(os.Stdin)
}

func main() {
	f := newDumpFlags()
	if err := f.flagset.Parse(os.Args[1:]); err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}
	data, err := f.readInput()
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}

	values, err := veriform.DecodeValue(data)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	digest, err := veriform.Transcript(data)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}

	fmt.Print("Fields:\n\n")
	printValues(values, 0)
	fmt.Printf("\nContent transcript: %s\n", digest)
	fmt.Printf("Content transcript (bech32): %s\n", digest.Bech32("content"))

	if f.cbor {
		encoded, err := cbor.Marshal(values)
		if err != nil {
			fmt.Printf("ERROR: %s\n", err)
			os.Exit(1)
		}
		diag, err := cbor.Diagnose(encoded)
		if err != nil {
			fmt.Printf("ERROR: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nCBOR: %x\n", encoded)
		fmt.Printf("CBOR (diagnostic): %s\n", diag)
	}
}

func printValues(values []veriform.Value, indent int) {
	prefix := strings.Repeat("    ", indent)
	for _, value := range values {
		label := fmt.Sprintf("%s%d:%s", prefix, value.Tag, value.WireType)
		switch value.WireType {
		case field.WireTypeUInt64:
			fmt.Printf("%s: %d\n", label, value.UInt64)
		case field.WireTypeSInt64:
			fmt.Printf("%s: %d\n", label, value.SInt64)
		case field.WireTypeString:
			fmt.Printf("%s: %q\n", label, value.Bytes)
		case field.WireTypeMessage:
			fmt.Printf("%s:\n", label)
			printValues(value.Fields, indent+1)
		default:
			fmt.Printf("%s: %x (%d bytes)\n", label, value.Bytes, len(value.Bytes))
		}
	}
}
