// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package abi

import (
	"strings"
	"testing"
)

func word(hex string) string {
	return strings.Repeat("0", 64-len(hex)) + hex
}

func TestEncodeStringKnownVector(t *testing.T) {
	t.Parallel()
	// offset 0x20, length 5, "hello" right-padded to 32 bytes
	want := "0x" + word("20") + word("5") + "68656c6c6f" + strings.Repeat("0", 54)
	if got := EncodeString("hello"); got != want {
		t.Fatalf("EncodeString(hello) =\n%s\nwant\n%s", got, want)
	}
}

func TestEncodeStringEmpty(t *testing.T) {
	t.Parallel()
	want := "0x" + word("20") + word("0")
	if got := EncodeString(""); got != want {
		t.Fatalf("EncodeString(\"\") = %s, want %s", got, want)
	}
}

func TestDecodeStringRoundTrip(t *testing.T) {
	t.Parallel()
	for _, value := range []string{
		"",
		"/tmp/app.world-3735928559",
		"@app.world-1",
		"multi\nline ✓ utf-8",
		strings.Repeat("x", 100),
	} {
		encoded := EncodeString(value)
		decoded, err := DecodeString(encoded)
		if err != nil {
			t.Fatalf("DecodeString(%s): %v", encoded, err)
		}
		if decoded != value {
			t.Errorf("round trip = %q, want %q", decoded, value)
		}
		if _, err := DecodeString(strings.TrimPrefix(encoded, "0x")); err != nil {
			t.Errorf("DecodeString without prefix: %v", err)
		}
	}
}

func TestDecodeStringRejectsGarbage(t *testing.T) {
	t.Parallel()
	for _, input := range []string{EmptyValue, "0xzz", "0x" + word("20")} {
		if _, err := DecodeString(input); err == nil {
			t.Errorf("DecodeString(%q) succeeded, want error", input)
		}
	}
}
