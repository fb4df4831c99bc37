// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package companion is the listening side of the bridge protocol, for
// long-lived processes launched by "ipcbridge init".
//
// A companion recovers its channel address from the "ipc:" argument the
// launcher appended ([AddressFromArgs]), binds it with [Listen], and
// runs [Server.Serve] with a [Handler]. Serve handles one connection at
// a time, one request per connection:
//
//   - a connection that closes without sending anything is a handshake
//     probe from init and is skipped;
//   - "response:<payload>" goes to Handler.Call and the returned text
//     is written back as the reply;
//   - "terminate:<message>" goes to Handler.Terminate, its reply is
//     written, and Serve returns.
//
// When Call fails the connection is closed without a reply, which the
// bridge reports to its host as a transport failure.
package companion
