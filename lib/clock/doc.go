// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides the injectable time source used by the connect
// retry loop.
//
// The retry loop sleeps a fixed interval between attempts, and the
// bound on its total wait (retries * interval) is part of the bridge's
// contract. Production code passes Real(); tests pass Fake() and drive
// time explicitly so the bound can be asserted exactly:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go connector.Connect(ctx, address, policy)
//	c.WaitForTimers(1)          // the loop is now sleeping
//	c.Advance(policy.Interval)  // release exactly one retry
package clock
