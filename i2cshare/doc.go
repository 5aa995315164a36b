// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package i2cshare lets several device drivers use one physical I²C bus.
//
// New wraps a bus into a handle and Clone returns more handles onto the
// same bus, one per driver. Each transaction borrows its handle and holds
// the bus for exactly its own duration: transactions from different
// handles, including from different goroutines such as a driver's
// SenseContinuous loop, wait for each other and never interleave on the
// wire.
//
// A transaction started on a handle while another one is in flight on the
// same handle, from a nested call or from two goroutines sharing one
// handle, is a programming error and panics with a *ReentrantError before
// touching the bus. A nested call on another handle of the same bus
// deadlocks, give every client its own handle and don't call into the bus
// from within a transaction.
package i2cshare
