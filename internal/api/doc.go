// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

// Package api exposes the authorization service over HTTP using the Chi
// router: authorize and bulk-authorize endpoints, audit trail queries,
// health probes, and Prometheus metrics.
//
// The adapter maps decisions to a stable wire contract: 200 with the
// decision body when allowed, 403 ACCESS_DENIED with the audit id when
// denied, 401 AUTH_REQUIRED without a valid bearer token, 403 RATE_LIMITED
// with a Retry-After header on rate-limit denials, and 500
// AUTH_SERVICE_ERROR when the pipeline failed closed.
package api
