// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/bureau-foundation/ipcbridge/lib/codec"
)

// envelopeHeaderSize is the 4-byte big-endian body length.
const envelopeHeaderSize = 4

// EnvelopeCodec frames each message as a 4-byte big-endian length
// followed by a CBOR map {"kind": ..., "payload": ...}. Payloads may
// contain any bytes, newlines included. Both ends must opt in.
type EnvelopeCodec struct {
	// MaxSize caps the encoded body length. Zero means MaxFrameSize.
	MaxSize int
}

type envelope struct {
	Kind    FrameKind `cbor:"kind"`
	Payload string    `cbor:"payload"`
}

func (c EnvelopeCodec) maxSize() int {
	if c.MaxSize <= 0 {
		return MaxFrameSize
	}
	return c.MaxSize
}

// WriteFrame implements Codec.
func (c EnvelopeCodec) WriteFrame(w io.Writer, f Frame) error {
	kind := f.Kind
	if kind == "" {
		kind = FrameText
	}
	body, err := codec.Marshal(envelope{Kind: kind, Payload: f.Payload})
	if err != nil {
		return fmt.Errorf("encoding envelope: %w", err)
	}
	if len(body) > c.maxSize() {
		return fmt.Errorf("%w: %d bytes (maximum %d)", ErrFrameTooLarge, len(body), c.maxSize())
	}

	message := make([]byte, envelopeHeaderSize+len(body))
	binary.BigEndian.PutUint32(message, uint32(len(body)))
	copy(message[envelopeHeaderSize:], body)
	_, err = w.Write(message)
	return err
}

// ReadFrame implements Codec. The declared length is checked against
// the cap before the body is allocated.
func (c EnvelopeCodec) ReadFrame(r io.Reader) (Frame, error) {
	var header [envelopeHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Frame{}, unterminated(err)
	}

	length := binary.BigEndian.Uint32(header[:])
	if uint64(length) > uint64(c.maxSize()) {
		return Frame{}, fmt.Errorf("%w: header declares %d bytes (maximum %d)", ErrFrameTooLarge, length, c.maxSize())
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return Frame{}, unterminated(err)
	}

	var decoded envelope
	if err := codec.Unmarshal(body, &decoded); err != nil {
		return Frame{}, fmt.Errorf("%w: %w", ErrMalformedFrame, err)
	}
	switch decoded.Kind {
	case FrameRequest, FrameTerminate, FrameText:
	default:
		return Frame{}, fmt.Errorf("%w: unknown kind %q", ErrMalformedFrame, truncate(string(decoded.Kind), 64))
	}
	return Frame{Kind: decoded.Kind, Payload: decoded.Payload}, nil
}

// unterminated wraps short-read errors in ErrUnterminatedFrame and
// passes anything else through.
func unterminated(err error) error {
	switch {
	case errors.Is(err, io.EOF):
		return fmt.Errorf("%w: %w", ErrUnterminatedFrame, io.EOF)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: %w", ErrUnterminatedFrame, io.ErrUnexpectedEOF)
	default:
		return err
	}
}
