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

// NewWithResolver returns a new pending Promise together with the Resolver
// that settles it.
//
// Use it when the producing side and the consuming side of the promise live
// in different places; when the producing code fits in one block, New is
// the more convenient form.
func NewWithResolver() (*Promise, *Resolver) {
	p := newPromise()
	return p, &Resolver{p: p}
}

// New returns a new Promise settled by the passed setup block.
//
// The setup block runs synchronously, on the calling goroutine, before New
// returns. It receives the fulfill and reject capabilities of the new
// promise; the first call to either one wins. If the setup block panics
// before settling the promise, the promise is rejected with the panic's
// payload, so producer code can use ordinary control-flow panics and still
// produce a correctly rejected promise.
//
// It will panic if a nil setup block is passed.
func New(setup func(fulfill func(val any), reject func(err error))) *Promise {
	if setup == nil {
		panic(nilCallbackPanicMsg)
	}

	p, r := NewWithResolver()

	func() {
		defer func() {
			if v := recover(); v != nil {
				r.Reject(panicReason(v))
			}
		}()
		setup(r.Fulfill, r.Reject)
	}()

	return p
}

// Wrap returns a Promise that's already settled with val, which may be a
// ManifoldValue: rejected if val is a non-nil error value, fulfilled with
// it otherwise.
func Wrap(val any) *Promise {
	p, r := NewWithResolver()
	r.Fulfill(val)
	return p
}

// Go submits fn to the shared concurrent pool and returns a Promise that's
// settled by fn's return, or by its panic.
//
// It's the conventional way to start a promise chain from a blocking or
// CPU-bound piece of work.
//
// It will panic if a nil function is passed.
func Go(fn func() Result) *Promise {
	return GoOn(BackgroundContext(), fn)
}

// GoOn is like Go, with fn targeting the passed context.
//
// It will panic if a nil function or a nil context is passed.
func GoOn(ec ExecutionContext, fn func() Result) *Promise {
	if fn == nil {
		panic(nilCallbackPanicMsg)
	}
	if ec == nil {
		panic(nilContextPanicMsg)
	}

	p := newPromise()
	ec.Submit(func() {
		runCallback(p, fn)
	})
	return p
}
