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

// IsStatePending returns true if the passed status value describes a promise
// whose result is not yet published, which includes a promise that's in the
// middle of being resolved.
func IsStatePending(s uint32) bool {
	st := s & stateBitsSetMask
	return st == statePending || st == stateResolving
}

// IsStateFulfilled returns true if the passed status value describes a
// fulfilled promise.
func IsStateFulfilled(s uint32) bool {
	return s&stateBitsSetMask == stateFulfilled
}

// IsStateRejected returns true if the passed status value describes a
// rejected promise.
func IsStateRejected(s uint32) bool {
	return s&stateBitsSetMask == stateRejected
}

// IsStateResolved returns true if the passed status value describes a
// promise that reached either terminal state.
func IsStateResolved(s uint32) bool {
	return IsStateFulfilled(s) || IsStateRejected(s)
}
