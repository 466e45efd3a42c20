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

// Package promise provides a resolve-once promise primitive with chainable
// continuations that run on injectable execution contexts.
//
// A Promise is a handle to a value produced by some asynchronous operation.
// It has three states, and it can be in only one of them, at any time:
// Pending: the operation that corresponds to this Promise has not finished.
// Fulfilled: the operation has finished and produced a value.
// Rejected: the operation has finished and produced an error reason.
//
// The transition from Pending to a terminal state happens exactly once, no
// matter how many goroutines race to settle the promise; the first settling
// call wins and every later one is a no-op.
//
// # Chaining
//
// Then, Catch, and Finally register continuations, and each returns a new
// child Promise. A continuation's callback runs on a target execution
// context: the process-wide ordered context for the plain forms, the shared
// concurrent pool for ThenInBackground, or any caller-chosen context for the
// *On forms. Callbacks never run inline with registration, even when the
// receiver is already settled.
//
// A callback settles its child promise through the Result it returns: Val
// fulfills, Err rejects, and returning another Promise makes the child adopt
// that promise's eventual settlement instead of treating it as a plain value
// (chain flattening).
//
// Then callbacks are a closed set of four shapes, Func0 through Func3. When
// a promise is fulfilled with a Manifold, a callback declaring k parameters
// receives the k most significant positions of it, in order.
//
// # Errors
//
// Rejection reasons are ordinary error values. A panic raised inside a
// callback is recovered at the scheduling boundary and rejects the child
// promise, with non-error panic payloads wrapped in PanicError. A rejection
// that settles with no catch continuation queued is reported to the
// process-wide unhandled-rejection handler, which logs it by default and can
// be replaced with SetUnhandledRejectionHandler.
//
// The package provides no cancellation, timeout, or retry: once a
// continuation is submitted to its context, it runs to completion.
package promise
