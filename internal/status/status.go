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

package status

import "sync/atomic"

// PromStatus holds the value that defines and represents the status of the
// promise.
// It's read and written/updated atomically.
type PromStatus uint32

// the state's related values and constants, using 2 bits.
//
// Resolving is a transient value: it's held only between winning the
// settlement race and publishing the terminal state, so external readers
// treat it as Pending.
const (
	statePending uint32 = iota
	stateResolving
	stateFulfilled
	stateRejected

	// stateBitsSetMask is &-ed with the status to get the state value.
	stateBitsSetMask uint32 = 0b11
)

// Load returns the current status value.
func (s *PromStatus) Load() uint32 {
	return atomic.LoadUint32((*uint32)(s))
}

// SetResolving attempts the Pending -> Resolving transition, and reports
// whether this call won it.
// Exactly one call per promise ever returns true; the winner must follow
// up with SetFulfilled or SetRejected.
func (s *PromStatus) SetResolving() (set bool) {
	return atomic.CompareAndSwapUint32((*uint32)(s), statePending, stateResolving)
}

// SetFulfilled publishes the Fulfilled state.
// It must only be called by the goroutine that won SetResolving, after the
// promise result has been stored.
func (s *PromStatus) SetFulfilled() {
	atomic.StoreUint32((*uint32)(s), stateFulfilled)
}

// SetRejected publishes the Rejected state.
// It must only be called by the goroutine that won SetResolving, after the
// promise result has been stored.
func (s *PromStatus) SetRejected() {
	atomic.StoreUint32((*uint32)(s), stateRejected)
}
