// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// Defaults for generated addresses.
const (
	DefaultDir    = "/tmp"
	DefaultPrefix = "app.world"
)

// maxDraws bounds how many suffixes Next tries before giving up on
// finding an unused path.
const maxDraws = 8

// Namespace selects the address form a Namer produces.
type Namespace int

const (
	// NamespaceAuto uses filesystem paths, which every supported
	// platform provides.
	NamespaceAuto Namespace = iota

	// NamespacePath produces <Dir>/<Prefix>-<n>.
	NamespacePath

	// NamespaceAbstract produces @<Prefix>-<n>, a Linux abstract socket
	// that never touches the filesystem.
	NamespaceAbstract
)

// ParseNamespace maps a configuration string to a Namespace.
func ParseNamespace(s string) (Namespace, error) {
	switch s {
	case "", "auto":
		return NamespaceAuto, nil
	case "path":
		return NamespacePath, nil
	case "abstract":
		return NamespaceAbstract, nil
	default:
		return 0, fmt.Errorf("unknown address namespace %q (want auto, path, or abstract)", s)
	}
}

func (n Namespace) String() string {
	switch n {
	case NamespaceAuto:
		return "auto"
	case NamespacePath:
		return "path"
	case NamespaceAbstract:
		return "abstract"
	default:
		return fmt.Sprintf("namespace(%d)", int(n))
	}
}

// AbstractSupported reports whether this platform has abstract sockets.
func AbstractSupported() bool {
	return runtime.GOOS == "linux" || runtime.GOOS == "android"
}

// Namer generates fresh channel addresses. The zero value produces
// /tmp/app.world-<n> with n drawn from crypto/rand.
type Namer struct {
	// Dir is the parent directory for path addresses. Default: /tmp.
	Dir string

	// Prefix is the fixed part of the name. Default: app.world.
	Prefix string

	Namespace Namespace

	// Random supplies suffix entropy. Default: crypto/rand.Reader.
	Random io.Reader
}

// Next returns a fresh address. For path addresses, suffixes whose
// path already exists are skipped so a stale socket is never reused.
// An address that cannot fit in a socket name is an error.
func (n *Namer) Next() (Address, error) {
	namespace := n.namespace()
	if namespace == NamespaceAbstract && !AbstractSupported() {
		return "", fmt.Errorf("abstract socket addresses are not supported on %s", runtime.GOOS)
	}

	for range maxDraws {
		suffix, err := n.suffix()
		if err != nil {
			return "", fmt.Errorf("drawing channel suffix: %w", err)
		}
		address, err := ParseAddress(string(n.Format(suffix)))
		if err != nil {
			return "", err
		}
		if namespace == NamespaceAbstract {
			return address, nil
		}
		if _, err := os.Lstat(string(address)); errors.Is(err, os.ErrNotExist) {
			return address, nil
		}
	}
	return "", fmt.Errorf("no unused channel address in %s after %d draws", n.dir(), maxDraws)
}

// Format renders the address for a specific suffix.
func (n *Namer) Format(suffix uint32) Address {
	name := fmt.Sprintf("%s-%d", n.prefix(), suffix)
	if n.namespace() == NamespaceAbstract {
		return Address("@" + name)
	}
	return Address(filepath.Join(n.dir(), name))
}

func (n *Namer) suffix() (uint32, error) {
	random := n.Random
	if random == nil {
		random = rand.Reader
	}
	var buffer [4]byte
	if _, err := io.ReadFull(random, buffer[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buffer[:]), nil
}

func (n *Namer) namespace() Namespace {
	if n.Namespace == NamespaceAuto {
		return NamespacePath
	}
	return n.Namespace
}

func (n *Namer) dir() string {
	if n.Dir == "" {
		return DefaultDir
	}
	return n.Dir
}

func (n *Namer) prefix() string {
	if n.Prefix == "" {
		return DefaultPrefix
	}
	return n.Prefix
}
