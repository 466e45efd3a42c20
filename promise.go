// Copyright 2024 The halfdome Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package promise

import (
	"sync"

	"github.com/halfdome/promise/internal/status"
)

// State is the resolution state of a Promise.
type State int

const (
	Pending State = iota
	Fulfilled
	Rejected
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return "<unknown>"
	}
}

// Promise is a handle to a value that an asynchronous operation will
// eventually produce.
//
// A Promise is created through New, NewWithResolver, Wrap, or Go, or by
// registering a continuation on another Promise. It settles exactly once,
// to either Fulfilled or Rejected, and its continuations are flushed in
// registration order at the moment of settlement.
//
// A Promise must not be copied. The zero value is not usable; all
// constructors in this package return ready Promise values.
type Promise struct {
	// hold the current state of the promise.
	// the val and rec fields are guaranteed to be immutable after the state
	// value is terminal, so don't read them before then.
	status status.PromStatus

	// guards the continuation queue and the flushed flag.
	mu sync.Mutex

	// ordered sequence of continuations, appended in registration order and
	// consumed exactly once, at the moment of settlement.
	queue []continuation

	// set once the queue has been consumed. continuations registered after
	// that point dispatch immediately instead of queuing.
	flushed bool

	// holds the fulfillment value. valid iff the state is Fulfilled.
	val any

	// holds the rejection record. valid iff the state is Rejected.
	rec *rejection

	// closed when this promise settles. it has one writer, the goroutine
	// that won the settlement race, and any number of waiting readers.
	done chan struct{}
}

func newPromise() *Promise {
	return &Promise{done: make(chan struct{})}
}

// promiseResult makes a *Promise usable as a callback's Result, which is
// how a callback hands back an inner promise for adoption.
func (p *Promise) promiseResult() {}

// State returns the current state of the promise.
func (p *Promise) State() State {
	s := p.status.Load()
	switch {
	case status.IsStateFulfilled(s):
		return Fulfilled
	case status.IsStateRejected(s):
		return Rejected
	default:
		return Pending
	}
}

// Pending returns true if the promise has not yet settled.
func (p *Promise) Pending() bool {
	return status.IsStatePending(p.status.Load())
}

// Resolved returns true if the promise has settled, to either state.
func (p *Promise) Resolved() bool {
	return status.IsStateResolved(p.status.Load())
}

// Fulfilled returns true if the promise has settled to Fulfilled.
func (p *Promise) Fulfilled() bool {
	return status.IsStateFulfilled(p.status.Load())
}

// Rejected returns true if the promise has settled to Rejected.
func (p *Promise) Rejected() bool {
	return status.IsStateRejected(p.status.Load())
}

// Value returns the value this promise settled with: the fulfillment value
// if it's fulfilled, or the rejection reason if it's rejected.
// It returns nil while the promise is pending.
func (p *Promise) Value() any {
	s := p.status.Load()
	switch {
	case status.IsStateFulfilled(s):
		return p.val
	case status.IsStateRejected(s):
		return p.rec.reason
	default:
		return nil
	}
}

// Err returns the rejection reason if the promise has settled to Rejected,
// otherwise nil.
func (p *Promise) Err() error {
	if status.IsStateRejected(p.status.Load()) {
		return p.rec.reason
	}
	return nil
}

// Wait blocks the calling goroutine until the promise settles.
// Waiting doesn't consume the rejection: an unhandled rejection is still
// reported whether or not anything waits on the promise.
func (p *Promise) Wait() {
	<-p.done
}

// WaitChan returns a channel that's closed once the promise settles.
func (p *Promise) WaitChan() <-chan struct{} {
	return p.done
}

// Then registers cb to run on the default ordered context once this promise
// is fulfilled, and returns a new promise that cb's Result will settle.
//
// If this promise rejects instead, cb is not invoked and the returned
// promise rejects with the same reason.
//
// It will panic if a nil callback is passed.
func (p *Promise) Then(cb Handler) *Promise {
	return p.ThenOn(DefaultContext(), cb)
}

// ThenInBackground is like Then, with cb targeting the shared concurrent
// pool instead of the default ordered context.
func (p *Promise) ThenInBackground(cb Handler) *Promise {
	return p.ThenOn(BackgroundContext(), cb)
}

// ThenOn is like Then, with cb targeting the passed context.
//
// It will panic if a nil callback or a nil context is passed.
func (p *Promise) ThenOn(ec ExecutionContext, cb Handler) *Promise {
	if cb == nil {
		panic(nilCallbackPanicMsg)
	}
	if ec == nil {
		panic(nilContextPanicMsg)
	}

	return p.register(continuation{kind: kindThen, ec: ec, handler: cb})
}

// Catch registers cb to run on the default ordered context once this
// promise is rejected, and returns a new promise that cb's Result will
// settle. Returning a fulfillment Result from cb recovers from the
// rejection.
//
// If this promise fulfills instead, cb is not invoked and the returned
// promise fulfills with the same value.
//
// It will panic if a nil callback is passed.
func (p *Promise) Catch(cb func(err error) Result) *Promise {
	return p.CatchOn(DefaultContext(), cb)
}

// CatchOn is like Catch, with cb targeting the passed context.
//
// It will panic if a nil callback or a nil context is passed.
func (p *Promise) CatchOn(ec ExecutionContext, cb func(err error) Result) *Promise {
	if cb == nil {
		panic(nilCallbackPanicMsg)
	}
	if ec == nil {
		panic(nilContextPanicMsg)
	}

	return p.register(continuation{kind: kindCatch, ec: ec, catchCb: cb})
}

// Finally registers cb to run on the default ordered context once this
// promise settles, to either state. The returned promise settles exactly
// as this promise did, unless cb panics, in which case it rejects with the
// panic's payload instead.
//
// A Finally callback observes settlement but cannot consume a rejection:
// an uncaught rejection stays uncaught through a Finally.
//
// It will panic if a nil callback is passed.
func (p *Promise) Finally(cb func()) *Promise {
	return p.FinallyOn(DefaultContext(), cb)
}

// FinallyOn is like Finally, with cb targeting the passed context.
//
// It will panic if a nil callback or a nil context is passed.
func (p *Promise) FinallyOn(ec ExecutionContext, cb func()) *Promise {
	if cb == nil {
		panic(nilCallbackPanicMsg)
	}
	if ec == nil {
		panic(nilContextPanicMsg)
	}

	return p.register(continuation{kind: kindFinally, ec: ec, finallyCb: cb})
}
