// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

type codedError struct{ code int }

func (e codedError) Error() string { return "coded" }
func (e codedError) ExitCode() int { return e.code }

func TestCode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("boom"), 1},
		{"coded", codedError{code: 4}, 4},
		{"coded zero falls back", codedError{code: 0}, 1},
		{"wrapped coded", fmt.Errorf("exec: %w", codedError{code: 3}), 3},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := Code(test.err); got != test.want {
				t.Errorf("Code(%v) = %d, want %d", test.err, got, test.want)
			}
		})
	}
}

func TestReport(t *testing.T) {
	t.Parallel()
	var buffer bytes.Buffer
	Report(&buffer, nil)
	if buffer.Len() != 0 {
		t.Fatalf("Report(nil) wrote %q", buffer.String())
	}
	Report(&buffer, errors.New("connect failed"))
	if got := buffer.String(); got != "error: connect failed\n" {
		t.Fatalf("Report = %q", got)
	}
}
