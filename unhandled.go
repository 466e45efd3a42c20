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

	"github.com/rs/zerolog/log"
)

// unhandledMu guards the process-wide handler slot, independently of any
// promise's own synchronization.
var (
	unhandledMu      sync.RWMutex
	unhandledHandler func(reason error) = defaultUnhandledHandler
)

// SetUnhandledRejectionHandler replaces the process-wide callback invoked
// when a rejection settles with no catch continuation queued, and returns
// the previously installed callback, so that callers can restore it.
//
// Passing nil restores the default handler, which logs the reason.
//
// The handler runs on whichever goroutine settled the rejected promise;
// handlers that touch shared state must synchronize on their own.
func SetUnhandledRejectionHandler(h func(reason error)) (prev func(reason error)) {
	if h == nil {
		h = defaultUnhandledHandler
	}

	unhandledMu.Lock()
	prev = unhandledHandler
	unhandledHandler = h
	unhandledMu.Unlock()
	return prev
}

func fireUnhandledRejection(reason error) {
	unhandledMu.RLock()
	h := unhandledHandler
	unhandledMu.RUnlock()

	h(reason)
}

func defaultUnhandledHandler(reason error) {
	log.Error().Err(reason).Msg("promise: unhandled rejection")
}
