// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"fmt"
	"strings"
)

// Scheme is the argument prefix that marks a channel address.
const Scheme = "ipc"

// maxPathAddress is the usable length of sun_path: 108 bytes including
// the terminating NUL.
const maxPathAddress = 107

// Address names a local channel: a filesystem path, or an abstract
// socket name starting with '@'. It is opaque to the host environment,
// which only threads it from init to later calls.
type Address string

// ParseAddress validates a caller-supplied address.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return "", ErrEmptyAddress
	}
	if strings.ContainsRune(s, 0) {
		return "", fmt.Errorf("channel address %q contains a NUL byte", s)
	}
	if len(s) > maxPathAddress {
		return "", fmt.Errorf("channel address is %d bytes, longer than the %d-byte socket name limit", len(s), maxPathAddress)
	}
	return Address(s), nil
}

func (a Address) String() string { return string(a) }

// Network is the net package network name for the channel.
func (a Address) Network() string { return "unix" }

// IsAbstract reports whether a names a Linux abstract socket rather
// than a filesystem path.
func (a Address) IsAbstract() bool { return strings.HasPrefix(string(a), "@") }

// Argument formats a as the "ipc:<address>" launch argument.
func (a Address) Argument() string { return Scheme + ":" + string(a) }

// ParseArgument extracts the address from an "ipc:<address>" argument.
// Only the first colon separates scheme from payload, so addresses may
// themselves contain colons.
func ParseArgument(arg string) (Address, error) {
	payload, ok := strings.CutPrefix(arg, Scheme+":")
	if !ok {
		return "", fmt.Errorf("%q: %w", arg, ErrNotChannelArgument)
	}
	return ParseAddress(payload)
}

// FindArgument returns the address from the last "ipc:" argument in
// args. The launcher appends the address last, so a companion whose own
// arguments happen to start with "ipc:" still finds the right one.
func FindArgument(args []string) (Address, error) {
	for i := len(args) - 1; i >= 0; i-- {
		if strings.HasPrefix(args[i], Scheme+":") {
			return ParseArgument(args[i])
		}
	}
	return "", fmt.Errorf("no %s: argument among %d arguments: %w", Scheme, len(args), ErrNotChannelArgument)
}
