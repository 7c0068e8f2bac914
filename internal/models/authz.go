package models

// RequireOwner is the single authorization predicate for owned resources:
// the caller may mutate a resource only when their id equals the owning
// user's id. Returns a FORBIDDEN AppError with the given message otherwise.
func RequireOwner(ownerID, callerID uint, message string) error {
	if ownerID != callerID {
		return NewForbiddenError(message)
	}
	return nil
}
