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

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromStatus_Transitions(t *testing.T) {
	t.Run("zero value is pending", func(t *testing.T) {
		s := PromStatus(0)
		assert.True(t, IsStatePending(s.Load()))
		assert.False(t, IsStateResolved(s.Load()))
	})

	t.Run("resolving is still pending to readers", func(t *testing.T) {
		s := PromStatus(0)
		require.True(t, s.SetResolving())
		assert.True(t, IsStatePending(s.Load()))
		assert.False(t, IsStateFulfilled(s.Load()))
		assert.False(t, IsStateRejected(s.Load()))
		assert.False(t, IsStateResolved(s.Load()))
	})

	t.Run("set resolving wins only once", func(t *testing.T) {
		s := PromStatus(0)
		require.True(t, s.SetResolving())
		assert.False(t, s.SetResolving())
	})

	t.Run("fulfilled", func(t *testing.T) {
		s := PromStatus(0)
		require.True(t, s.SetResolving())
		s.SetFulfilled()
		assert.True(t, IsStateFulfilled(s.Load()))
		assert.False(t, IsStateRejected(s.Load()))
		assert.False(t, IsStatePending(s.Load()))
		assert.True(t, IsStateResolved(s.Load()))

		// a late settlement attempt can't win anymore.
		assert.False(t, s.SetResolving())
	})

	t.Run("rejected", func(t *testing.T) {
		s := PromStatus(0)
		require.True(t, s.SetResolving())
		s.SetRejected()
		assert.True(t, IsStateRejected(s.Load()))
		assert.False(t, IsStateFulfilled(s.Load()))
		assert.False(t, IsStatePending(s.Load()))
		assert.True(t, IsStateResolved(s.Load()))
	})
}

func TestPromStatus_ConcurrentSetResolving(t *testing.T) {
	const callers = 100

	s := PromStatus(0)

	var wg sync.WaitGroup
	wg.Add(callers)
	start := make(chan struct{})
	wins := make(chan int, callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-start
			if s.SetResolving() {
				wins <- 1
			}
		}()
	}

	close(start)
	wg.Wait()
	close(wins)

	won := 0
	for range wins {
		won++
	}
	require.Equal(t, 1, won)
}

func BenchmarkPromStatus_SetResolving(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := PromStatus(0)
		s.SetResolving()
	}
}

func BenchmarkPromStatus_Load(b *testing.B) {
	s := PromStatus(0)
	s.SetResolving()
	s.SetFulfilled()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Load()
	}
}
