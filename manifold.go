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
	"fmt"
	"strings"
)

// maxManifoldLen is the maximum number of positions a manifold can carry.
const maxManifoldLen = 3

// ManifoldValue is an ordered tuple of up to three values carried through a
// promise's single resolution slot, so that one settlement can deliver
// multiple results.
//
// Positions are ordered from most significant to least significant, since
// consumers are not compelled to consume all of them: a callback declaring
// k parameters receives positions 1..k only.
//
// The zero ManifoldValue is an empty manifold.
type ManifoldValue struct {
	vals [maxManifoldLen]any
	n    int
}

// Manifold builds a ManifoldValue from the passed values, in order.
//
// It will panic if more than three values are passed.
func Manifold(vals ...any) ManifoldValue {
	if len(vals) > maxManifoldLen {
		panic(manifoldLimitPanicMsg)
	}

	mv := ManifoldValue{n: len(vals)}
	copy(mv.vals[:], vals)
	return mv
}

// Len returns the number of positions this manifold holds.
func (mv ManifoldValue) Len() int {
	return mv.n
}

// At returns the value at position i (0-based), or nil if the manifold
// doesn't hold that many positions.
func (mv ManifoldValue) At(i int) any {
	if i < 0 || i >= mv.n {
		return nil
	}
	return mv.vals[i]
}

// First returns the most significant position of this manifold, or nil if
// it's empty.
func (mv ManifoldValue) First() any {
	return mv.At(0)
}

// Values returns a copy of the held positions, in order.
func (mv ManifoldValue) Values() []any {
	if mv.n == 0 {
		return nil
	}

	vals := make([]any, mv.n)
	copy(vals, mv.vals[:mv.n])
	return vals
}

func (mv ManifoldValue) String() string {
	b := strings.Builder{}
	b.WriteString("manifold(")
	for i := 0; i < mv.n; i++ {
		if i != 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v", mv.vals[i])
	}
	b.WriteString(")")
	return b.String()
}

// spreadValue adapts a fulfillment value to a callback that declares arity
// parameters: a manifold delivers its positions 1..arity, any other value
// behaves as a manifold of size 1, and missing trailing positions are nil.
func spreadValue(val any, arity int) (args [maxManifoldLen]any) {
	if mv, ok := val.(ManifoldValue); ok {
		for i := 0; i < arity && i < maxManifoldLen; i++ {
			args[i] = mv.At(i)
		}
		return args
	}

	if arity > 0 {
		args[0] = val
	}
	return args
}
