// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package authz

import (
	"context"
	"fmt"

	"github.com/caraudioevents/authcore/internal/models"
	"github.com/caraudioevents/authcore/internal/store"
)

// RuleOutcome is the result of evaluating one resource type's rule.
type RuleOutcome struct {
	Allowed bool
	Tags    []string
	Reason  string
}

// Engine dispatches authorization checks to per-resource-type rules.
// It holds no mutable state; the lookup store is only used for secondary
// projections (organizer and organization resolution).
type Engine struct {
	registry Registry
	lookup   store.ResourceStore
}

// NewEngine creates an engine over the given registry and lookup store.
func NewEngine(registry Registry, lookup store.ResourceStore) *Engine {
	return &Engine{registry: registry, lookup: lookup}
}

// Decide evaluates the rule for ref's type: conditions run top to bottom
// and the first match wins; no match falls through to the rule's terminal
// deny. Any evaluation error aborts with a non-nil error so the caller can
// fail closed.
func (e *Engine) Decide(
	ctx context.Context,
	principal *models.Principal,
	ref models.ResourceRef,
	op models.Operation,
	meta *models.Metadata,
) (RuleOutcome, error) {
	rule, ok := e.registry[ref.Type]
	if !ok {
		return RuleOutcome{}, fmt.Errorf("%w: %s", ErrNoRule, ref.Type)
	}

	in := &ruleInput{
		ctx:       ctx,
		principal: principal,
		ref:       ref,
		op:        op,
		meta:      meta,
		lookup:    e.lookup,
	}

	for _, cond := range rule.conditions {
		matched, err := cond.when(in)
		if err != nil {
			return RuleOutcome{}, fmt.Errorf("evaluate %s rule: %w", ref.Type, err)
		}
		if !matched {
			continue
		}
		if cond.denyReason != "" {
			return RuleOutcome{Allowed: false, Reason: cond.denyReason}, nil
		}
		return RuleOutcome{Allowed: true, Tags: cond.tags}, nil
	}

	return RuleOutcome{Allowed: false, Reason: rule.denyReason}, nil
}
