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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitDefaultContext blocks until every task already submitted to the
// default ordered context has run, relying on its FIFO guarantee.
func waitDefaultContext(t *testing.T) {
	t.Helper()
	drained := make(chan struct{})
	DefaultContext().Submit(func() { close(drained) })
	select {
	case <-drained:
	case <-time.After(5 * time.Second):
		t.Fatal("default context didn't drain")
	}
}

// rejectionRecorder installs itself as the unhandled-rejection handler for
// one test and records every reported reason.
type rejectionRecorder struct {
	mu      sync.Mutex
	reasons []error
}

func recordRejections(t *testing.T) *rejectionRecorder {
	t.Helper()
	rec := &rejectionRecorder{}
	prev := SetUnhandledRejectionHandler(func(reason error) {
		rec.mu.Lock()
		rec.reasons = append(rec.reasons, reason)
		rec.mu.Unlock()
	})
	t.Cleanup(func() { SetUnhandledRejectionHandler(prev) })
	return rec
}

func (rec *rejectionRecorder) reported() []error {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]error(nil), rec.reasons...)
}

func TestUnhandledRejectionFires(t *testing.T) {
	rec := recordRejections(t)
	wantErr := testStrError("nobody caught this")

	_, r := NewWithResolver()
	r.Reject(wantErr)

	assert.Equal(t, []error{wantErr}, rec.reported())
}

func TestUnhandledRejectionSuppressedByQueuedCatch(t *testing.T) {
	rec := recordRejections(t)

	p, r := NewWithResolver()
	caught := make(chan error, 1)
	c := p.Catch(func(err error) Result {
		caught <- err
		return nil
	})

	wantErr := testStrError("caught")
	r.Reject(wantErr)
	c.Wait()

	assert.Equal(t, wantErr, <-caught)
	assert.Empty(t, rec.reported())
}

func TestUnhandledRejectionCatchAmongSiblings(t *testing.T) {
	rec := recordRejections(t)

	// one catch among the flushed continuations suppresses the report,
	// even with then siblings that forward the rejection.
	p, r := NewWithResolver()
	c1 := p.Then(Func0(func() Result { return nil }))
	c2 := p.Catch(func(err error) Result { return nil })

	r.Reject(testStrError("handled by sibling"))
	c1.Wait()
	c2.Wait()

	assert.Empty(t, rec.reported())
}

func TestUnhandledRejectionFiresOncePerChain(t *testing.T) {
	rec := recordRejections(t)
	wantErr := testStrError("chained failure")

	// no catch anywhere: the report must fire exactly once, not once per
	// promise the rejection passes through.
	p, r := NewWithResolver()
	c := p.Then(Func0(func() Result { return nil })).
		Then(Func0(func() Result { return nil })).
		Finally(func() {})

	r.Reject(wantErr)
	c.Wait()

	assert.Equal(t, []error{wantErr}, rec.reported())
}

func TestUnhandledRejectionFiresOnceAcrossForks(t *testing.T) {
	rec := recordRejections(t)
	wantErr := testStrError("forked failure")

	p, r := NewWithResolver()
	c1 := p.Then(Func0(func() Result { return nil }))
	c2 := p.Then(Func0(func() Result { return nil }))
	c3 := p.Finally(func() {})

	r.Reject(wantErr)
	c1.Wait()
	c2.Wait()
	c3.Wait()

	assert.Equal(t, []error{wantErr}, rec.reported())
}

func TestLateCatchCannotRetractReport(t *testing.T) {
	rec := recordRejections(t)
	wantErr := testStrError("reported then caught")

	p, r := NewWithResolver()
	r.Reject(wantErr)

	// already reported at settlement.
	require.Equal(t, []error{wantErr}, rec.reported())

	// a late catch still receives the rejection normally.
	caught := make(chan error, 1)
	c := p.Catch(func(err error) Result {
		caught <- err
		return nil
	})
	c.Wait()

	assert.Equal(t, wantErr, <-caught)
	assert.Equal(t, []error{wantErr}, rec.reported())
}

func TestLateCatchSuppressesDownstreamReports(t *testing.T) {
	rec := recordRejections(t)

	// a catch that has observed the rejection marks it handled, so forks
	// settled afterwards don't report it.
	p, r := NewWithResolver()
	caught := make(chan error, 1)
	c := p.Catch(func(err error) Result {
		caught <- err
		return nil
	})

	r.Reject(testStrError("observed"))
	c.Wait()
	<-caught

	// a new then fork settles rejected after the catch observed the
	// rejection: no report.
	c2 := p.Then(Func0(func() Result { return nil }))
	c2.Wait()

	assert.Empty(t, rec.reported())
}

func TestAdoptedRejectionReportsDownstream(t *testing.T) {
	rec := recordRejections(t)
	wantErr := testStrError("inner failure")

	// a rejected inner promise returned from a callback transfers its
	// reporting responsibility to the adopting chain.
	inner, innerRes := NewWithResolver()
	p, r := NewWithResolver()
	c := p.Then(Func0(func() Result {
		return inner
	}))

	r.Fulfill(nil)
	waitDefaultContext(t)

	innerRes.Reject(wantErr)
	c.Wait()

	assert.Equal(t, []error{wantErr}, rec.reported())
}

func TestAdoptedRejectionCaughtDownstream(t *testing.T) {
	rec := recordRejections(t)
	wantErr := testStrError("inner caught")

	inner, innerRes := NewWithResolver()
	p, r := NewWithResolver()
	caught := make(chan error, 1)
	c := p.Then(Func0(func() Result {
		return inner
	})).Catch(func(err error) Result {
		caught <- err
		return nil
	})

	r.Fulfill(nil)
	waitDefaultContext(t)

	innerRes.Reject(wantErr)
	c.Wait()

	assert.Equal(t, wantErr, <-caught)
	assert.Empty(t, rec.reported())
}

func TestSetUnhandledRejectionHandler(t *testing.T) {
	prev := SetUnhandledRejectionHandler(func(error) {})
	t.Cleanup(func() { SetUnhandledRejectionHandler(prev) })

	// replacing returns the handler installed before.
	var ran bool
	h := func(error) { ran = true }
	SetUnhandledRejectionHandler(h)

	_, r := NewWithResolver()
	r.Reject(testStrError("through the slot"))
	assert.True(t, ran)

	// nil restores the default.
	got := SetUnhandledRejectionHandler(nil)
	require.NotNil(t, got)
}
