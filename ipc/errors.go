// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a bridge failure.
type Kind int

const (
	// KindUsage is a caller mistake: unknown command, missing or
	// malformed arguments.
	KindUsage Kind = iota + 1

	// KindConnect is an exhausted connect retry budget.
	KindConnect

	// KindTransport is a read or write failure on an established
	// connection, including the peer closing before a full frame.
	KindTransport

	// KindProtocol is a frame that violates the wire format: oversized,
	// embedded delimiter, or an undecodable envelope.
	KindProtocol

	// KindLaunch is a companion that could not be started.
	KindLaunch
)

func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindConnect:
		return "connect"
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindLaunch:
		return "launch"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ExitCode is the process exit status for a failure of this kind.
func (k Kind) ExitCode() int {
	switch k {
	case KindUsage:
		return 2
	case KindConnect:
		return 3
	case KindTransport:
		return 4
	case KindProtocol:
		return 5
	case KindLaunch:
		return 6
	default:
		return 1
	}
}

var (
	// ErrFrameTooLarge means a frame exceeded the size cap. The frame is
	// rejected whole, never truncated.
	ErrFrameTooLarge = errors.New("frame exceeds maximum size")

	// ErrUnterminatedFrame means the peer closed the connection before
	// sending a complete frame.
	ErrUnterminatedFrame = errors.New("peer closed without sending a terminator")

	// ErrEmbeddedNewline means an outgoing line-codec payload contained
	// the frame delimiter.
	ErrEmbeddedNewline = errors.New("payload contains a newline")

	// ErrMalformedFrame means an incoming frame could not be decoded.
	ErrMalformedFrame = errors.New("malformed frame")

	// ErrNotChannelArgument means an argument lacks the "ipc:" scheme.
	ErrNotChannelArgument = errors.New("not an ipc: argument")

	// ErrEmptyAddress means an address or ipc: argument had no payload.
	ErrEmptyAddress = errors.New("empty channel address")
)

// Error is a classified bridge failure.
type Error struct {
	Kind Kind

	// Op names the step that failed: "connect", "send", "receive",
	// "launch", or a command name for usage errors.
	Op string

	// Address is the channel involved, if any.
	Address Address

	// Attempts is the number of connect attempts made, for KindConnect.
	Attempts int

	Err error
}

func (e *Error) Error() string {
	var builder strings.Builder
	builder.WriteString(e.Op)
	if e.Address != "" {
		builder.WriteString(" ")
		builder.WriteString(string(e.Address))
	}
	if e.Attempts > 0 {
		fmt.Fprintf(&builder, " (after %d attempts)", e.Attempts)
	}
	if e.Err != nil {
		builder.WriteString(": ")
		builder.WriteString(e.Err.Error())
	}
	return builder.String()
}

func (e *Error) Unwrap() error { return e.Err }

// ExitCode returns the exit status for this error's kind.
func (e *Error) ExitCode() int { return e.Kind.ExitCode() }

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var bridgeError *Error
	if errors.As(err, &bridgeError) {
		return bridgeError.Kind
	}
	return 0
}

// UsageError builds a KindUsage error for op.
func UsageError(op string, format string, args ...any) *Error {
	return &Error{Kind: KindUsage, Op: op, Err: fmt.Errorf(format, args...)}
}

// frameErrorKind maps a frame read/write error to protocol or transport.
func frameErrorKind(err error) Kind {
	switch {
	case errors.Is(err, ErrFrameTooLarge),
		errors.Is(err, ErrEmbeddedNewline),
		errors.Is(err, ErrMalformedFrame):
		return KindProtocol
	default:
		return KindTransport
	}
}
