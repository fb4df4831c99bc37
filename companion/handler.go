// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package companion

import (
	"context"

	"github.com/bureau-foundation/ipcbridge/lib/abi"
)

// Handler answers bridge requests.
type Handler interface {
	// Call answers one exec payload. The returned text is sent back
	// verbatim and printed by the bridge, so it is normally an
	// ABI-encoded hex string.
	Call(ctx context.Context, payload string) (string, error)

	// Terminate answers the final message before Serve returns.
	Terminate(ctx context.Context, message string) string
}

// HandlerFuncs adapts plain functions to Handler. A nil TerminateFunc
// replies with the ABI empty value.
type HandlerFuncs struct {
	CallFunc      func(ctx context.Context, payload string) (string, error)
	TerminateFunc func(ctx context.Context, message string) string
}

// Call implements Handler.
func (h HandlerFuncs) Call(ctx context.Context, payload string) (string, error) {
	return h.CallFunc(ctx, payload)
}

// Terminate implements Handler.
func (h HandlerFuncs) Terminate(ctx context.Context, message string) string {
	if h.TerminateFunc == nil {
		return abi.EmptyValue
	}
	return h.TerminateFunc(ctx, message)
}
