// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package companion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/bureau-foundation/ipcbridge/ipc"
	"github.com/bureau-foundation/ipcbridge/lib/netutil"
)

// staleProbeTimeout bounds the dial Listen uses to decide whether an
// existing socket file still has a live listener.
const staleProbeTimeout = time.Second

// AddressFromArgs finds the channel address in a companion's argv,
// skipping the program name.
func AddressFromArgs(args []string) (ipc.Address, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("empty argument list: %w", ipc.ErrNotChannelArgument)
	}
	return ipc.FindArgument(args[1:])
}

// Options configures a Server.
type Options struct {
	// Codec must match the bridge's wire format. Default: ipc.LineCodec.
	Codec ipc.Codec

	Logger *slog.Logger
}

// Server accepts bridge connections on one channel.
type Server struct {
	address  ipc.Address
	listener net.Listener
	codec    ipc.Codec
	logger   *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// Listen binds address. A leftover socket file with no live listener is
// removed first; any other existing file is an error.
func Listen(address ipc.Address, options Options) (*Server, error) {
	if !address.IsAbstract() {
		if err := removeStaleSocket(string(address)); err != nil {
			return nil, err
		}
	}

	listener, err := net.Listen(address.Network(), address.String())
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", address, err)
	}

	codec := options.Codec
	if codec == nil {
		codec = ipc.LineCodec{}
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{
		address:  address,
		listener: listener,
		codec:    codec,
		logger:   logger.With("address", address),
	}, nil
}

func removeStaleSocket(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if info.Mode()&os.ModeSocket == 0 {
		return fmt.Errorf("%s exists and is not a socket", path)
	}

	probe, err := net.DialTimeout("unix", path, staleProbeTimeout)
	if err == nil {
		probe.Close()
		return fmt.Errorf("%s already has a listener", path)
	}
	if !netutil.IsNotListening(err) {
		return fmt.Errorf("probing %s: %w", path, err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing stale socket %s: %w", path, err)
	}
	return nil
}

// Address returns the bound channel address.
func (s *Server) Address() ipc.Address { return s.address }

// Serve handles connections until a terminate frame has been answered
// (returns nil), ctx is cancelled (returns ctx.Err()), or the listener
// is closed (returns nil).
func (s *Server) Serve(ctx context.Context, handler Handler) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			s.listener.Close()
		case <-stop:
		}
	}()

	requests := 0
	for {
		connection, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accepting on %s: %w", s.address, err)
		}

		done, err := s.handle(ctx, connection, handler, &requests)
		connection.Close()
		if err != nil {
			s.logger.Warn("request failed", "error", err)
			continue
		}
		if done {
			s.logger.Info("terminated", "requests", requests)
			return nil
		}
	}
}

// handle serves one connection. It reports done after a terminate.
func (s *Server) handle(ctx context.Context, connection net.Conn, handler Handler, requests *int) (bool, error) {
	conn := ipc.NewConn(connection, s.address, s.codec)

	frame, err := conn.Receive(0)
	if err != nil {
		if errors.Is(err, io.EOF) || netutil.IsExpectedCloseError(err) {
			s.logger.Debug("handshake probe")
			return false, nil
		}
		return false, err
	}

	if frame.Kind == ipc.FrameText {
		frame, err = ipc.ParseTagged(frame.Payload)
		if err != nil {
			return false, err
		}
	}

	switch frame.Kind {
	case ipc.FrameRequest:
		*requests++
		reply, err := handler.Call(ctx, frame.Payload)
		if err != nil {
			return false, fmt.Errorf("request %d: %w", *requests, err)
		}
		s.logger.Debug("request answered", "request", *requests, "payload_bytes", len(frame.Payload))
		return false, conn.Send(ipc.TextFrame(reply))

	case ipc.FrameTerminate:
		reply := handler.Terminate(ctx, frame.Payload)
		if err := conn.Send(ipc.TextFrame(reply)); err != nil {
			s.logger.Debug("terminate reply not delivered", "error", err)
		}
		return true, nil

	default:
		return false, fmt.Errorf("unexpected %s frame from bridge", frame.Kind)
	}
}

// Close stops accepting and removes the socket file.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.listener.Close()
		if errors.Is(s.closeErr, net.ErrClosed) {
			s.closeErr = nil
		}
		if !s.address.IsAbstract() {
			if err := os.Remove(string(s.address)); err != nil && !errors.Is(err, os.ErrNotExist) && s.closeErr == nil {
				s.closeErr = err
			}
		}
	})
	return s.closeErr
}
