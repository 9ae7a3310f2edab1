// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

// Package store provides minimal ownership/state projections of platform
// records for authorization decisions. One generic fetch, parameterized by
// a per-resource-type projection descriptor, replaces per-type query
// duplication. The Postgres implementation reads the platform's own tables;
// projections are fetched fresh on every call and never cached.
package store

import (
	"context"
	"errors"

	"github.com/caraudioevents/authcore/internal/models"
)

// ErrNotFound is returned when no record matches the resource id.
var ErrNotFound = errors.New("resource not found")

// ResourceStore fetches the minimal metadata projection for a resource.
type ResourceStore interface {
	// FetchMeta returns the projection for ref, keyed strictly by resource
	// id equality. Returns ErrNotFound when no record matches.
	FetchMeta(ctx context.Context, ref models.ResourceRef) (*models.Metadata, error)
}
