// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package authz

import (
	"context"
	"errors"

	"github.com/caraudioevents/authcore/internal/logging"
	"github.com/caraudioevents/authcore/internal/models"
	"github.com/caraudioevents/authcore/internal/store"
)

// Resolver performs the existence check: a pure lookup of the resource's
// minimal projection with no side effects.
//
// Not-found and store errors deliberately collapse to exists=false for the
// caller, so an unauthorized caller cannot distinguish a missing resource
// from a transient failure. Operators still get the distinction: store
// errors are logged at error level and counted separately.
type Resolver struct {
	store store.ResourceStore
}

// NewResolver creates a resolver over the given store.
func NewResolver(s store.ResourceStore) *Resolver {
	return &Resolver{store: s}
}

// Resolve fetches the projection for ref. It returns exists=false both for
// a missing record and for a store failure.
func (r *Resolver) Resolve(ctx context.Context, ref models.ResourceRef) (bool, *models.Metadata) {
	meta, err := r.store.FetchMeta(ctx, ref)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RecordLookup("not_found")
			return false, nil
		}

		RecordLookup("store_error")
		logging.Ctx(ctx).Error().
			Err(err).
			Str("resource_type", string(ref.Type)).
			Str("resource_id", ref.ID).
			Msg("Resource lookup failed")
		return false, nil
	}

	RecordLookup("found")
	return true, meta
}
