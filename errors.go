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

import "fmt"

// PanicError wraps a panic payload that was recovered at the scheduling
// boundary, inside a callback or a setup block, so that it can travel
// through a promise chain as a rejection reason.
//
// If the payload itself is an error value it's used as the reason directly,
// without this wrapper.
type PanicError struct {
	// V is the value the original panic call was made with.
	V any
}

func (e PanicError) Error() string {
	return fmt.Sprintf("promise: callback panicked: %v", e.V)
}

// panicReason converts a recovered panic payload into a rejection reason.
func panicReason(v any) error {
	if err, ok := v.(error); ok && err != nil {
		return err
	}
	return PanicError{V: v}
}
