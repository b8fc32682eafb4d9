// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package docflow

import (
	"sync"
	"time"

	"github.com/poiesic/docflow/core"
)

// ChangeType classifies a document change event.
type ChangeType string

const (
	ChangeCreated          ChangeType = "created"
	ChangeUpdated          ChangeType = "updated"
	ChangeDeleted          ChangeType = "deleted"
	ChangeWorkflowStarted  ChangeType = "workflow_started"
	ChangeWorkflowAdvanced ChangeType = "workflow_advanced"
)

// ChangeEvent describes a document change observed through a manager.
// Stage is set for workflow events only.
type ChangeEvent struct {
	Type     ChangeType
	Document *core.Document
	Stage    string
	At       time.Time
}

// subscriptions is a callback registry scoped to one manager instance.
// Callbacks run synchronously on the goroutine that performed the change.
type subscriptions struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(ChangeEvent)
}

func newSubscriptions() *subscriptions {
	return &subscriptions{subs: make(map[int]func(ChangeEvent))}
}

func (s *subscriptions) subscribe(fn func(ChangeEvent)) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *subscriptions) notify(event ChangeEvent) {
	s.mu.RLock()
	fns := make([]func(ChangeEvent), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(event)
	}
}
