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

import "sync"

// panic messages
const (
	nilCallbackPanicMsg   = "promise: the provided callback is nil"
	nilContextPanicMsg    = "promise: the provided execution context is nil"
	nilTaskPanicMsg       = "promise: the provided task is nil"
	manifoldLimitPanicMsg = "promise: a manifold is limited to 3 values"
)

type continuationKind int

const (
	kindThen continuationKind = iota
	kindCatch
	kindFinally

	// kindFollow is the internal adoption continuation: it forwards the
	// settlement of an inner promise, returned from a callback, to the
	// child promise of that callback's registration (chain flattening).
	kindFollow
)

// continuation describes one registered continuation: its kind, the context
// its callback targets, the callback itself, and the child promise it will
// settle. It's created atomically with that child.
type continuation struct {
	kind      continuationKind
	ec        ExecutionContext
	handler   Handler
	catchCb   func(err error) Result
	finallyCb func()
	child     *Promise
}

// rejection is the record of one rejection, shared between every promise
// the rejection is forwarded to (passthrough, finally, and adoption
// settlements reuse the record). The shared flags make the unhandled
// reporting fire at most once per rejection, even across forked chains.
type rejection struct {
	reason error

	mu sync.Mutex

	// set once the rejection has been reported as unhandled.
	reported bool

	// set once a catch continuation has observed the rejection. a late
	// catch still sets it, but cannot retract a report that already fired.
	handled bool
}

func newRejection(reason error) *rejection {
	return &rejection{reason: reason}
}

// markHandled records that a catch continuation observed this rejection.
func (r *rejection) markHandled() {
	r.mu.Lock()
	r.handled = true
	r.mu.Unlock()
}

// report fires the unhandled-rejection handler, unless this rejection has
// already been reported or a catch has already observed it.
func (r *rejection) report() {
	r.mu.Lock()
	if r.reported || r.handled {
		r.mu.Unlock()
		return
	}
	r.reported = true
	r.mu.Unlock()

	fireUnhandledRejection(r.reason)
}

// register appends a continuation to the queue, or dispatches it right
// away if the queue has already been flushed. It always creates and
// returns the continuation's child promise immediately, and it never
// blocks on, nor runs, the continuation's callback.
func (p *Promise) register(c continuation) *Promise {
	c.child = newPromise()

	p.mu.Lock()
	if !p.flushed {
		p.queue = append(p.queue, c)
		p.mu.Unlock()
		return c.child
	}
	p.mu.Unlock()

	p.dispatch(c)
	return c.child
}

// followedBy registers the internal adoption continuation that forwards
// this promise's eventual settlement to child.
func (p *Promise) followedBy(child *Promise) {
	p.mu.Lock()
	if !p.flushed {
		p.queue = append(p.queue, continuation{kind: kindFollow, child: child})
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.dispatch(continuation{kind: kindFollow, child: child})
}

// settleFulfilled attempts the transition to Fulfilled with val.
// It returns false, without any effect, if the promise already settled or
// is being settled by another call.
func (p *Promise) settleFulfilled(val any) (set bool) {
	if !p.status.SetResolving() {
		return false
	}

	p.val = val
	p.status.SetFulfilled()
	close(p.done)

	for _, c := range p.takeQueue() {
		p.dispatch(c)
	}
	return true
}

// settleRejected attempts the transition to Rejected with the passed
// record, then evaluates the unhandled-rejection rule: after flushing the
// continuations queued at this instant, the rejection is reported iff none
// of them was a catch, and none was an adoption continuation, which instead
// transfers the reporting responsibility to the promise it forwards to.
// It returns false, without any effect, if the promise already settled or
// is being settled by another call.
func (p *Promise) settleRejected(rec *rejection) (set bool) {
	if !p.status.SetResolving() {
		return false
	}

	p.rec = rec
	p.status.SetRejected()
	close(p.done)

	q := p.takeQueue()

	// a catch queued at this instant marks the record handled before any
	// sibling is dispatched, so forwarded settlements that race ahead of
	// the catch's own dispatch don't report the rejection.
	transferred := false
	for _, c := range q {
		switch c.kind {
		case kindCatch:
			rec.markHandled()
		case kindFollow:
			transferred = true
		}
	}

	for _, c := range q {
		p.dispatch(c)
	}
	if !transferred {
		rec.report()
	}
	return true
}

// takeQueue consumes the continuation queue. Called exactly once per
// promise, by the goroutine that won the settlement race.
func (p *Promise) takeQueue() []continuation {
	p.mu.Lock()
	q := p.queue
	p.queue = nil
	p.flushed = true
	p.mu.Unlock()
	return q
}

// dispatch executes one continuation against this promise's settlement.
// It must only be called once the promise has settled.
//
// Continuations whose callback doesn't apply to the settled state are
// passthrough: they run no callback and settle the child synchronously,
// forwarding this promise's settlement (and, for rejections, its record).
// All other continuations submit a unit of work to their target context;
// the callback never runs on the dispatching goroutine.
func (p *Promise) dispatch(c continuation) {
	rejected := p.Rejected()

	switch c.kind {
	case kindThen:
		if rejected {
			c.child.settleRejected(p.rec)
			return
		}
		val := p.val
		cb := c.handler
		c.ec.Submit(func() {
			runCallback(c.child, func() Result { return cb.call(val) })
		})

	case kindCatch:
		if !rejected {
			c.child.settleFulfilled(p.val)
			return
		}
		rec := p.rec
		rec.markHandled()
		cb := c.catchCb
		c.ec.Submit(func() {
			runCallback(c.child, func() Result { return cb(rec.reason) })
		})

	case kindFinally:
		cb := c.finallyCb
		c.ec.Submit(func() {
			runFinally(c.child, p, cb)
		})

	case kindFollow:
		if rejected {
			c.child.settleRejected(p.rec)
		} else {
			c.child.settleFulfilled(p.val)
		}
	}
}

// resolveToRes settles p from a callback's returned Result.
// A *Promise result doesn't fulfill p with the promise as a value; instead
// p adopts that promise's eventual settlement, recursively.
func resolveToRes(p *Promise, res Result) {
	switch r := res.(type) {
	case nil:
		p.settleFulfilled(nil)
	case valResult:
		p.settleFulfilled(r.val)
	case errResult:
		if r.err == nil {
			p.settleFulfilled(nil)
		} else {
			p.settleRejected(newRejection(r.err))
		}
	case *Promise:
		if r == nil {
			p.settleFulfilled(nil)
			return
		}
		r.followedBy(p)
	}
}
