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

// Resolver is the fulfill/reject capability pair bound to exactly one
// Promise. It's handed to producer code that wraps an operation which
// doesn't use promises itself.
//
// The first Fulfill or Reject call settles the promise; every later call,
// on either method, is a no-op. Both methods are safe for concurrent use.
type Resolver struct {
	p *Promise
}

// Promise returns the promise this resolver settles.
func (r *Resolver) Promise() *Promise {
	return r.p
}

// Fulfill settles the promise as fulfilled with val, which may be a
// ManifoldValue to deliver multiple results.
//
// As a documented equivalence with rejection: if val is a non-nil error
// value, the promise is rejected with it instead.
//
// If val is itself a *Promise, the promise adopts its eventual settlement
// rather than fulfilling with it as a value.
func (r *Resolver) Fulfill(val any) {
	if err, ok := val.(error); ok && err != nil {
		r.p.settleRejected(newRejection(err))
		return
	}
	if inner, ok := val.(*Promise); ok && inner != nil {
		inner.followedBy(r.p)
		return
	}
	r.p.settleFulfilled(val)
}

// Reject settles the promise as rejected with reason err.
// Rejecting with a nil error fulfills the promise to nil instead.
func (r *Resolver) Reject(err error) {
	if err == nil {
		r.p.settleFulfilled(nil)
		return
	}
	r.p.settleRejected(newRejection(err))
}
