// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

// Package authz is the resource-level authorization core: it decides, per
// request, whether an authenticated principal may read, create, update, or
// delete a specific resource instance, given ownership, organizational
// membership, verification state, and lifecycle rules.
//
// Pipeline (strict order, each denying stage short-circuits the rest):
//
//	rate limit -> input validation -> existence check -> admin bypass
//	-> policy dispatch -> audit
//
// Every call is independent and stateless: metadata is fetched fresh each
// time, decisions are never cached, and any internal failure resolves to a
// denial (fail-closed). One correlation id is generated per call and
// threaded through every log and audit record it produces.
//
// Policy rules live in a registry keyed by resource type: each rule is an
// ordered predicate chain with a terminal deny, so adding a resource type
// means registering one rule value.
package authz
