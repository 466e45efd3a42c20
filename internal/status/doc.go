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

// Package status implements the atomic status word of a promise.
//
// The status word carries the promise's state, which moves through the
// following transitions, each happening at most once, in order:
//
//	Pending -> Resolving -> Fulfilled
//	Pending -> Resolving -> Rejected
//
// SetResolving is a compare-and-swap, so when multiple goroutines race to
// settle the same promise, exactly one of them wins the transition out of
// Pending. The winner stores the promise's result value, then publishes the
// terminal state with SetFulfilled or SetRejected. Because the result is
// written before the terminal state's atomic store, any reader that observes
// a terminal state through Load is guaranteed to also observe the result.
//
// The Resolving value never escapes to users of the promise: the state
// predicates report it as Pending.
package status
