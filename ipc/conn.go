// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"bufio"
	"net"
	"time"
)

// Conn is an established channel connection bound to a codec. Errors
// from Send and Receive are *Error values carrying the address.
type Conn struct {
	conn    net.Conn
	address Address
	codec   Codec
	reader  *bufio.Reader
}

// NewConn wraps conn. A nil codec means LineCodec.
func NewConn(conn net.Conn, address Address, codec Codec) *Conn {
	if codec == nil {
		codec = LineCodec{}
	}
	return &Conn{
		conn:    conn,
		address: address,
		codec:   codec,
		reader:  bufio.NewReader(conn),
	}
}

// Address returns the channel this connection was opened to.
func (c *Conn) Address() Address { return c.address }

// Send writes one frame.
func (c *Conn) Send(f Frame) error {
	if err := c.codec.WriteFrame(c.conn, f); err != nil {
		return &Error{Kind: frameErrorKind(err), Op: "send", Address: c.address, Err: err}
	}
	return nil
}

// Receive reads one frame. A positive timeout bounds the wait; zero
// waits until the peer replies or closes.
func (c *Conn) Receive(timeout time.Duration) (Frame, error) {
	if timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return Frame{}, &Error{Kind: KindTransport, Op: "receive", Address: c.address, Err: err}
		}
	}
	f, err := c.codec.ReadFrame(c.reader)
	if err != nil {
		return Frame{}, &Error{Kind: frameErrorKind(err), Op: "receive", Address: c.address, Err: err}
	}
	return f, nil
}

// Exchange sends request and reads exactly one frame back.
func (c *Conn) Exchange(request Frame, timeout time.Duration) (Frame, error) {
	if err := c.Send(request); err != nil {
		return Frame{}, err
	}
	return c.Receive(timeout)
}

// Close closes the underlying connection.
func (c *Conn) Close() error { return c.conn.Close() }
