// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

// Package auth validates the platform's JWT bearer tokens and maps their
// claims to the principal model the decision pipeline consumes.
// Authentication itself happens upstream; this package only verifies and
// decodes what the upstream issued.
package auth
