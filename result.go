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

// Result is the value a callback returns to settle the promise created by
// its registration. It's a closed, two-case type: a success value (built
// with Val or Empty) or an error reason (built with Err).
//
// A *Promise is itself a valid Result. Returning one from a callback makes
// the callback's promise adopt that promise's eventual settlement, instead
// of fulfilling with it as a plain value.
//
// A nil Result is equivalent to Empty().
type Result interface {
	// private, so the set of implementations is closed to this module.
	promiseResult()
}

// Empty returns a fulfillment Result that carries no value.
func Empty() Result {
	return valResult{}
}

// Val returns a fulfillment Result carrying val.
//
// Unlike the producer-side Resolver.Fulfill, Val performs no inspection of
// val: a Result built from Val fulfills even when val is an error value.
func Val(val any) Result {
	return valResult{val: val}
}

// Err returns a rejection Result carrying err as the reason.
// Err(nil) is equivalent to Empty().
func Err(err error) Result {
	return errResult{err: err}
}

type valResult struct{ val any }
type errResult struct{ err error }

func (r valResult) promiseResult() {}
func (r errResult) promiseResult() {}

func (r valResult) String() string {
	return fmt.Sprintf("fulfilled: %v", r.val)
}
func (r errResult) String() string {
	if r.err == nil {
		return "fulfilled: <nil>"
	}
	return fmt.Sprintf("rejected: %s", r.err.Error())
}
