package controllers

import "github.com/google/uuid"

// ensureOwnerOrAdmin gates every authoring mutation: the resource owner or an
// admin passes, everyone else is denied. Learner-facing paths never use this;
// they gate on enrollment existence instead.
func ensureOwnerOrAdmin(ownerID, callerID uuid.UUID, isAdmin bool) error {
	if isAdmin {
		return nil
	}
	if ownerID != uuid.Nil && ownerID == callerID {
		return nil
	}
	return errAccessDenied()
}
