// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/caraudioevents/authcore/internal/models"
)

var (
	// uuidRegex matches canonical UUID v1-v5 strings.
	uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[1-5][0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)

	// integerIDRegex matches a positive integer string with no leading zeros,
	// so that strconv round-trips it unchanged.
	integerIDRegex = regexp.MustCompile(`^[1-9][0-9]*$`)
)

// suspiciousSubstrings are scanned against raw identifiers. Any hit is a
// rejection, never a silent strip: this layer rejects malformed input,
// it does not sanitize it.
var suspiciousSubstrings = []string{
	"<", ">",
	"'", `"`,
	";", "|", "&",
	"..",
	"\x00",
}

// suspiciousPrefixes catch scheme-based injection attempts.
var suspiciousPrefixes = []string{
	"javascript:",
	"data:",
	"vbscript:",
}

// IdentifierResult holds the outcome of identifier validation.
type IdentifierResult struct {
	Valid  bool
	Errors []string
}

// Error joins all validation errors into one message.
func (r IdentifierResult) Error() string {
	return strings.Join(r.Errors, "; ")
}

// ValidateRef checks a resource reference's shape: type membership in the
// closed 12-type set, non-empty id, injection-pattern scan, and the declared
// UUID-vs-integer shape for the type. Optional parent and hint ids get the
// type-agnostic UUID-or-integer check, since parents can be either shape.
//
// Pure function over the reference; no side effects.
func ValidateRef(ref models.ResourceRef) IdentifierResult {
	var errs []string

	if !models.IsValidResourceType(ref.Type) {
		errs = append(errs, fmt.Sprintf("Invalid resource type: %s", ref.Type))
	}

	if ref.ID == "" {
		errs = append(errs, "Resource ID is required")
	} else {
		if HasSuspiciousPatterns(ref.ID) {
			errs = append(errs, "Resource ID contains suspicious patterns")
		} else if models.IsValidResourceType(ref.Type) {
			if msg := checkShape(ref.Type, ref.ID); msg != "" {
				errs = append(errs, msg)
			}
		}
	}

	if ref.ParentID != "" {
		if msg := checkAnyShape("Parent ID", ref.ParentID); msg != "" {
			errs = append(errs, msg)
		}
	}
	if ref.OwnerHint != "" {
		if msg := checkAnyShape("Owner ID", ref.OwnerHint); msg != "" {
			errs = append(errs, msg)
		}
	}
	if ref.OrgHint != "" {
		if msg := checkAnyShape("Organization ID", ref.OrgHint); msg != "" {
			errs = append(errs, msg)
		}
	}

	return IdentifierResult{Valid: len(errs) == 0, Errors: errs}
}

// HasSuspiciousPatterns reports whether the raw identifier contains any of
// the fixed injection-pattern substrings or prefixes.
func HasSuspiciousPatterns(id string) bool {
	for _, s := range suspiciousSubstrings {
		if strings.Contains(id, s) {
			return true
		}
	}
	lower := strings.ToLower(id)
	for _, p := range suspiciousPrefixes {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// checkShape enforces the declared ID shape for a resource type.
// Returns an error message, or "" when the id conforms.
func checkShape(t models.ResourceType, id string) string {
	switch models.ShapeFor(t) {
	case models.IDShapeUUID:
		if !uuidRegex.MatchString(id) {
			return fmt.Sprintf("Resource ID must be a valid UUID for type %s", t)
		}
	case models.IDShapeInteger:
		if !integerIDRegex.MatchString(id) {
			return fmt.Sprintf("Resource ID must be a positive integer for type %s", t)
		}
	case models.IDShapeAny:
		// backup has no declared constraint
	}
	return ""
}

// checkAnyShape validates an auxiliary id that may be either shape.
func checkAnyShape(label, id string) string {
	if HasSuspiciousPatterns(id) {
		return fmt.Sprintf("%s contains suspicious patterns", label)
	}
	if !uuidRegex.MatchString(id) && !integerIDRegex.MatchString(id) {
		return fmt.Sprintf("%s must be a UUID or positive integer", label)
	}
	return ""
}

// IsUUID reports whether s is a canonical UUID v1-v5 string.
func IsUUID(s string) bool {
	return uuidRegex.MatchString(s)
}

// IsIntegerID reports whether s is a positive integer string with no
// leading zeros.
func IsIntegerID(s string) bool {
	return integerIDRegex.MatchString(s)
}
