// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package abi

import (
	"fmt"
	"strings"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// EmptyValue is the encoding of "no value". `terminate` prints it
// regardless of the companion's reply.
const EmptyValue = "0x"

var stringArguments ethabi.Arguments

func init() {
	stringType, err := ethabi.NewType("string", "", nil)
	if err != nil {
		panic("abi: string type initialization failed: " + err.Error())
	}
	stringArguments = ethabi.Arguments{{Type: stringType}}
}

// EncodeString returns the 0x-prefixed hex ABI encoding of s as a single
// string argument.
func EncodeString(s string) string {
	packed, err := stringArguments.Pack(s)
	if err != nil {
		// A Go string always packs as an ABI string.
		panic("abi: packing string: " + err.Error())
	}
	return hexutil.Encode(packed)
}

// DecodeString reverses EncodeString. The 0x prefix is optional.
func DecodeString(encoded string) (string, error) {
	encoded = strings.TrimSpace(encoded)
	if !strings.HasPrefix(encoded, "0x") && !strings.HasPrefix(encoded, "0X") {
		encoded = "0x" + encoded
	}
	data, err := hexutil.Decode(encoded)
	if err != nil {
		return "", fmt.Errorf("abi: decoding hex: %w", err)
	}
	values, err := stringArguments.Unpack(data)
	if err != nil {
		return "", fmt.Errorf("abi: unpacking string: %w", err)
	}
	if len(values) != 1 {
		return "", fmt.Errorf("abi: expected 1 value, got %d", len(values))
	}
	decoded, ok := values[0].(string)
	if !ok {
		return "", fmt.Errorf("abi: expected string, got %T", values[0])
	}
	return decoded, nil
}
