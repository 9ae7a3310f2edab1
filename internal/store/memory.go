// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package store

import (
	"context"
	"sync"

	"github.com/caraudioevents/authcore/internal/models"
)

// InMemory is a map-backed ResourceStore for tests and local development.
type InMemory struct {
	mu      sync.RWMutex
	records map[models.ResourceType]map[string]models.Metadata

	// failWith, when set, makes every fetch fail with this error.
	failWith error
}

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{
		records: make(map[models.ResourceType]map[string]models.Metadata),
	}
}

// Put stores a projection for a resource.
func (s *InMemory) Put(t models.ResourceType, id string, meta models.Metadata) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.records[t] == nil {
		s.records[t] = make(map[string]models.Metadata)
	}
	meta.ID = id
	s.records[t][id] = meta
}

// Delete removes a resource's projection.
func (s *InMemory) Delete(t models.ResourceType, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records[t], id)
}

// FailWith makes every subsequent fetch return err. Pass nil to recover.
func (s *InMemory) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

// FetchMeta implements ResourceStore.
func (s *InMemory) FetchMeta(_ context.Context, ref models.ResourceRef) (*models.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failWith != nil {
		return nil, s.failWith
	}

	meta, ok := s.records[ref.Type][ref.ID]
	if !ok {
		return nil, ErrNotFound
	}

	out := meta
	return &out, nil
}
