// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2cshare

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// ErrClosed is returned when a closed handle is used.
var ErrClosed = errors.New("i2cshare: handle is closed")

// noHolder marks the bus as free. I²C addresses are at most 10 bits.
const noHolder int32 = -1

// ReentrantError is the panic value raised when a transaction is started on
// a handle while another one is in flight on the same handle.
type ReentrantError struct {
	// Addr is the device the rejected transaction was addressed to.
	Addr uint16
	// Holder is the device the in-flight transaction is addressed to, or -1
	// for a SetSpeed call.
	Holder int32
}

func (e *ReentrantError) Error() string {
	return fmt.Sprintf("i2cshare: transaction to %#x started while the handle is borrowed by a transaction to %#x", e.Addr, e.Holder)
}

// shared is the state common to all the handles of a bus.
type shared struct {
	mu   sync.Mutex
	bus  i2c.Bus
	refs atomic.Int32
}

// Bus is a handle onto a shared I²C bus. It implements i2c.BusCloser.
//
// A handle belongs to one client, usually one driver. Transactions on
// different handles are serialized.
type Bus struct {
	s      *shared
	closed atomic.Bool
	busy   atomic.Bool
	holder atomic.Int32
}

// New returns the first handle onto b.
func New(b i2c.Bus) *Bus {
	s := &shared{bus: b}
	s.refs.Store(1)
	return newHandle(s)
}

// Clone returns a new handle onto the same bus. The bus stays open until
// every handle is closed.
func (b *Bus) Clone() *Bus {
	b.s.refs.Add(1)
	return newHandle(b.s)
}

func newHandle(s *shared) *Bus {
	b := &Bus{s: s}
	b.holder.Store(noHolder)
	return b
}

// Tx implements i2c.Bus.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if b.closed.Load() {
		return ErrClosed
	}
	b.borrow(int32(addr), addr)
	defer b.release()
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	return b.s.bus.Tx(addr, w, r)
}

// Write writes w to the device at addr.
func (b *Bus) Write(addr uint16, w []byte) error {
	return b.Tx(addr, w, nil)
}

// Read reads len(r) bytes from the device at addr.
func (b *Bus) Read(addr uint16, r []byte) error {
	return b.Tx(addr, nil, r)
}

// WriteRead writes w then reads len(r) bytes from the device at addr
// without releasing the bus in between.
func (b *Bus) WriteRead(addr uint16, w, r []byte) error {
	return b.Tx(addr, w, r)
}

// SetSpeed implements i2c.Bus. It changes the speed for all handles.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	if b.closed.Load() {
		return ErrClosed
	}
	b.borrow(noHolder, 0)
	defer b.release()
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	return b.s.bus.SetSpeed(f)
}

// Close implements io.Closer. The underlying bus is closed along with the
// last handle, if it can be closed.
func (b *Bus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	if b.s.refs.Add(-1) > 0 {
		return nil
	}
	if c, ok := b.s.bus.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (b *Bus) String() string {
	return fmt.Sprintf("shared(%s)", b.s.bus)
}

// borrow marks the handle as in use by a transaction to holder, or panics if
// it already is. It happens before waiting for the bus so a nested call
// fails instead of blocking forever.
func (b *Bus) borrow(holder int32, addr uint16) {
	if !b.busy.CompareAndSwap(false, true) {
		panic(&ReentrantError{Addr: addr, Holder: b.holder.Load()})
	}
	b.holder.Store(holder)
}

func (b *Bus) release() {
	b.holder.Store(noHolder)
	b.busy.Store(false)
}

var _ i2c.BusCloser = &Bus{}
