// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxFrameSize is the largest payload either codec accepts (16 MiB).
// Larger frames are rejected, never truncated.
const MaxFrameSize = 16 << 20

// TerminationMessage is the terminate payload sent when the caller
// supplies none.
const TerminationMessage = "termination"

// FrameKind identifies what a frame asks of the companion.
type FrameKind string

const (
	// FrameRequest carries an exec payload. Its line tag is "response"
	// for compatibility with deployed companions.
	FrameRequest FrameKind = "response"

	// FrameTerminate asks the companion to shut down.
	FrameTerminate FrameKind = "terminate"

	// FrameText is untagged text: every reply, and any line the line
	// codec reads before tag parsing.
	FrameText FrameKind = "text"
)

// Frame is one message on a channel.
type Frame struct {
	Kind    FrameKind
	Payload string
}

// RequestFrame wraps an exec payload.
func RequestFrame(payload string) Frame {
	return Frame{Kind: FrameRequest, Payload: payload}
}

// TerminateFrame wraps a terminate message. An empty message is sent
// as given; callers wanting the default pass TerminationMessage.
func TerminateFrame(message string) Frame {
	return Frame{Kind: FrameTerminate, Payload: message}
}

// TextFrame wraps an untagged reply.
func TextFrame(text string) Frame {
	return Frame{Kind: FrameText, Payload: text}
}

// Line renders f as a line-protocol body without the delimiter.
func (f Frame) Line() string {
	if f.Kind == FrameText || f.Kind == "" {
		return f.Payload
	}
	return string(f.Kind) + ":" + f.Payload
}

// ParseTagged splits a line-protocol body into its tag and payload.
// Only the first colon separates them; the payload may contain colons.
func ParseTagged(line string) (Frame, error) {
	tag, payload, ok := strings.Cut(line, ":")
	if !ok {
		return Frame{}, fmt.Errorf("%w: untagged line %q", ErrMalformedFrame, truncate(line, 64))
	}
	switch FrameKind(tag) {
	case FrameRequest, FrameTerminate:
		return Frame{Kind: FrameKind(tag), Payload: payload}, nil
	default:
		return Frame{}, fmt.Errorf("%w: unknown tag %q", ErrMalformedFrame, truncate(tag, 64))
	}
}

// Codec reads and writes frames on a stream.
type Codec interface {
	// WriteFrame writes f in a single Write call.
	WriteFrame(w io.Writer, f Frame) error

	// ReadFrame reads one complete frame. It returns an error wrapping
	// ErrUnterminatedFrame when the stream ends first; if nothing at
	// all was received the error also wraps io.EOF.
	ReadFrame(r io.Reader) (Frame, error)
}

// LineCodec is the newline-delimited wire format. Outgoing frames are
// "<tag>:<payload>\n" (or bare "<payload>\n" for text); incoming frames
// are returned as FrameText with the delimiter stripped.
type LineCodec struct {
	// MaxSize caps the payload length. Zero means MaxFrameSize.
	MaxSize int
}

func (c LineCodec) maxSize() int {
	if c.MaxSize <= 0 {
		return MaxFrameSize
	}
	return c.MaxSize
}

// WriteFrame implements Codec.
func (c LineCodec) WriteFrame(w io.Writer, f Frame) error {
	line := f.Line()
	if strings.ContainsRune(line, '\n') {
		return ErrEmbeddedNewline
	}
	if len(line) > c.maxSize() {
		return fmt.Errorf("%w: %d bytes (maximum %d)", ErrFrameTooLarge, len(line), c.maxSize())
	}
	buffer := make([]byte, 0, len(line)+1)
	buffer = append(buffer, line...)
	buffer = append(buffer, '\n')
	_, err := w.Write(buffer)
	return err
}

// ReadFrame implements Codec. Pass a *bufio.Reader to read several
// frames from one stream; any other reader is wrapped per call.
func (c LineCodec) ReadFrame(r io.Reader) (Frame, error) {
	reader, ok := r.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(r)
	}
	limit := c.maxSize()

	var line []byte
	for {
		chunk, err := reader.ReadSlice('\n')
		if len(line)+len(chunk) > limit+1 {
			return Frame{}, fmt.Errorf("%w: more than %d bytes before the delimiter", ErrFrameTooLarge, limit)
		}
		line = append(line, chunk...)

		switch {
		case err == nil:
			return TextFrame(string(line[:len(line)-1])), nil
		case errors.Is(err, bufio.ErrBufferFull):
			if len(line) > limit {
				return Frame{}, fmt.Errorf("%w: more than %d bytes before the delimiter", ErrFrameTooLarge, limit)
			}
		case errors.Is(err, io.EOF):
			if len(line) == 0 {
				return Frame{}, fmt.Errorf("%w: %w", ErrUnterminatedFrame, io.EOF)
			}
			return Frame{}, fmt.Errorf("%w after %d bytes: %w", ErrUnterminatedFrame, len(line), io.ErrUnexpectedEOF)
		default:
			return Frame{}, err
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
