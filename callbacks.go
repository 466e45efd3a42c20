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

// Handler is the closed set of callback shapes accepted by Then and its
// variants: Func0, Func1, Func2, and Func3.
//
// The shape is selected at registration time by the function type the
// callback is passed as. A callback declaring k parameters receives the k
// most significant positions of the fulfillment value, treating a
// non-manifold value as a manifold of size 1; positions beyond what the
// value holds are nil.
type Handler interface {
	call(val any) Result
}

// Func0 is a callback that consumes no positions of the fulfillment value.
type Func0 func() Result

// Func1 is a callback that consumes the most significant position of the
// fulfillment value. For a non-manifold value, that's the value itself.
type Func1 func(val any) Result

// Func2 is a callback that consumes the two most significant positions of
// the fulfillment value.
type Func2 func(val1, val2 any) Result

// Func3 is a callback that consumes all three positions of the fulfillment
// value.
type Func3 func(val1, val2, val3 any) Result

func (cb Func0) call(val any) Result {
	return cb()
}

func (cb Func1) call(val any) Result {
	args := spreadValue(val, 1)
	return cb(args[0])
}

func (cb Func2) call(val any) Result {
	args := spreadValue(val, 2)
	return cb(args[0], args[1])
}

func (cb Func3) call(val any) Result {
	args := spreadValue(val, 3)
	return cb(args[0], args[1], args[2])
}

// runCallback is the scheduling boundary around a then or catch callback:
// it invokes fn, converts any panic it raises into a rejection of child,
// and otherwise settles child from the returned Result. No panic ever
// propagates past this function.
//
// If the callback called runtime.Goexit, child is fulfilled to nil.
func runCallback(child *Promise, fn func() Result) {
	var res Result
	returned := false

	defer func() {
		if !returned {
			if v := recover(); v != nil {
				res = Err(panicReason(v))
			}
		}
		resolveToRes(child, res)
	}()

	res = fn()
	returned = true
}

// runFinally is the scheduling boundary around a finally callback: the
// callback takes no value and returns nothing, and child settles exactly
// as parent did, unless the callback panics, in which case child rejects
// with the panic's payload instead, overriding parent's settlement.
func runFinally(child *Promise, parent *Promise, cb func()) {
	returned := false

	defer func() {
		if !returned {
			if v := recover(); v != nil {
				child.settleRejected(newRejection(panicReason(v)))
				return
			}
		}
		if parent.Rejected() {
			child.settleRejected(parent.rec)
		} else {
			child.settleFulfilled(parent.val)
		}
	}()

	cb()
	returned = true
}
