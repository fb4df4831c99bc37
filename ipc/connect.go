// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/bureau-foundation/ipcbridge/lib/clock"
	"github.com/bureau-foundation/ipcbridge/lib/netutil"
)

// RetryPolicy is a constant-interval connect budget: one initial attempt
// plus MaxRetries more, with Interval between consecutive attempts.
type RetryPolicy struct {
	MaxRetries int
	Interval   time.Duration
}

var (
	// HandshakePolicy waits up to three seconds for a freshly launched
	// companion to bind its listener.
	HandshakePolicy = RetryPolicy{MaxRetries: 300, Interval: 10 * time.Millisecond}

	// CallPolicy makes exactly one attempt. A companion that is not
	// listening by the time exec or terminate runs is gone.
	CallPolicy = RetryPolicy{MaxRetries: 0, Interval: 10 * time.Millisecond}
)

// Budget is the total time spent sleeping when every attempt fails.
func (p RetryPolicy) Budget() time.Duration {
	return time.Duration(p.MaxRetries) * p.Interval
}

// Dialer opens stream connections. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Connector dials channel addresses under a RetryPolicy.
type Connector struct {
	// Dialer defaults to a zero net.Dialer.
	Dialer Dialer

	// Clock paces retries. Default: the real clock.
	Clock clock.Clock

	Logger *slog.Logger
}

// Connect dials address, retrying failed attempts per policy. On
// exhaustion it returns a KindConnect *Error wrapping the last dial
// error. Cancelling ctx stops the loop between attempts.
func (c *Connector) Connect(ctx context.Context, address Address, policy RetryPolicy) (net.Conn, error) {
	dialer := c.Dialer
	if dialer == nil {
		dialer = &net.Dialer{}
	}
	clk := c.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := c.logger()

	attempts := 0
	for {
		attempts++
		conn, err := dialer.DialContext(ctx, address.Network(), address.String())
		if err == nil {
			logger.Debug("connected", "address", address, "attempts", attempts)
			return conn, nil
		}

		if attempts > policy.MaxRetries {
			if netutil.IsPermissionDenied(err) {
				logger.Warn("channel exists but is not accessible", "address", address)
			}
			return nil, &Error{Kind: KindConnect, Op: "connect", Address: address, Attempts: attempts, Err: err}
		}
		if ctx.Err() != nil {
			return nil, &Error{Kind: KindConnect, Op: "connect", Address: address, Attempts: attempts, Err: ctx.Err()}
		}

		if attempts == 1 {
			logger.Debug("companion not reachable yet, retrying",
				"address", address,
				"not_listening", netutil.IsNotListening(err),
				"max_retries", policy.MaxRetries,
				"interval", policy.Interval,
			)
		}

		select {
		case <-clk.After(policy.Interval):
		case <-ctx.Done():
			return nil, &Error{Kind: KindConnect, Op: "connect", Address: address, Attempts: attempts, Err: ctx.Err()}
		}
	}
}

func (c *Connector) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}
