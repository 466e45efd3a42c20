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
	"runtime"
	"sync"
)

// ExecutionContext accepts units of work and runs them later, possibly
// concurrently with other contexts.
//
// Two implementations are provided, SerialContext and PoolContext, but any
// implementation can be targeted through the *On registration forms.
type ExecutionContext interface {
	// Submit enqueues task to run on this context. It must not block and
	// must not run task inline. Tasks submitted to the same context run in
	// submission order only if the context is ordered.
	Submit(task func())
}

// SerialContext is an ordered ExecutionContext: it runs submitted tasks one
// at a time, in submission order, like a serial queue.
//
// The zero value is ready to use.
type SerialContext struct {
	mu      sync.Mutex
	queue   []func()
	running bool
}

// NewSerialContext returns a new, idle SerialContext.
// Its runner goroutine starts on the first Submit and exits whenever the
// queue drains.
func NewSerialContext() *SerialContext {
	return &SerialContext{}
}

// Submit enqueues task behind any previously submitted tasks.
// It never blocks.
func (sc *SerialContext) Submit(task func()) {
	if task == nil {
		panic(nilTaskPanicMsg)
	}

	sc.mu.Lock()
	sc.queue = append(sc.queue, task)
	if sc.running {
		sc.mu.Unlock()
		return
	}
	sc.running = true
	sc.mu.Unlock()

	go sc.run()
}

func (sc *SerialContext) run() {
	drained := false
	defer func() {
		// a task may terminate this goroutine through runtime.Goexit.
		// hand the rest of the queue to a fresh runner.
		if !drained {
			go sc.run()
		}
	}()

	for {
		sc.mu.Lock()
		if len(sc.queue) == 0 {
			sc.running = false
			drained = true
			sc.mu.Unlock()
			return
		}
		task := sc.queue[0]
		sc.queue = sc.queue[1:]
		sc.mu.Unlock()

		task()
	}
}

// PoolContext is a concurrent ExecutionContext: it runs submitted tasks on
// a fixed set of worker goroutines, so tasks may run in parallel and in no
// guaranteed order relative to each other.
type PoolContext struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	size    int
	started bool
}

// NewPoolContext returns a new PoolContext with the passed number of
// workers. If size is 0 or less, the number of CPUs is used.
// The workers start on the first Submit.
func NewPoolContext(size int) *PoolContext {
	if size <= 0 {
		size = runtime.NumCPU()
	}

	pc := &PoolContext{size: size}
	pc.cond = sync.NewCond(&pc.mu)
	return pc
}

// Submit enqueues task to run on the first worker that becomes available.
// It never blocks.
func (pc *PoolContext) Submit(task func()) {
	if task == nil {
		panic(nilTaskPanicMsg)
	}

	pc.mu.Lock()
	if !pc.started {
		pc.started = true
		for i := 0; i < pc.size; i++ {
			go pc.worker()
		}
	}
	pc.queue = append(pc.queue, task)
	pc.mu.Unlock()

	pc.cond.Signal()
}

func (pc *PoolContext) worker() {
	// workers never return normally, so this is reached only when a task
	// terminates the goroutine through runtime.Goexit.
	defer func() { go pc.worker() }()

	for {
		pc.mu.Lock()
		for len(pc.queue) == 0 {
			pc.cond.Wait()
		}
		task := pc.queue[0]
		pc.queue = pc.queue[1:]
		pc.mu.Unlock()

		task()
	}
}

var (
	defaultCtxOnce sync.Once
	defaultCtx     *SerialContext

	backgroundCtxOnce sync.Once
	backgroundCtx     *PoolContext
)

// DefaultContext returns the process-wide ordered context that the plain
// Then, Catch, and Finally forms target.
func DefaultContext() *SerialContext {
	defaultCtxOnce.Do(func() {
		defaultCtx = NewSerialContext()
	})
	return defaultCtx
}

// BackgroundContext returns the process-wide concurrent pool that
// ThenInBackground and Go target.
func BackgroundContext() *PoolContext {
	backgroundCtxOnce.Do(func() {
		backgroundCtx = NewPoolContext(0)
	})
	return backgroundCtx
}
