// Package ownership implements the mutation guard for globally shared
// resources. There is no session layer: callers supply their own identity and
// the check is a plain equality comparison against the recorded creator.
// Tracks record a profile ID, lap times record a username.
package ownership

import "raceday/apperr"

// Assert returns nil when the claimed actor matches the recorded owner.
func Assert(ownerID, actorID string) error {
	if actorID == "" {
		return apperr.Forbiddenf("actor identity is required")
	}
	if ownerID != actorID {
		return apperr.Forbiddenf("only the creator can modify this resource")
	}
	return nil
}
