package models

import "errors"

// Failure taxonomy surfaced across component boundaries. Callers match with
// errors.Is; the engine translates all of these into Result values, never
// letting them escape the process boundary.
var (
	ErrManifestInvalid       = errors.New("manifest invalid")
	ErrApplicationNotFound   = errors.New("application not found")
	ErrContainerNotFound     = errors.New("container not found")
	ErrRuntimeUnavailable    = errors.New("container runtime unavailable")
	ErrInvalidState          = errors.New("container is not in a failed state")
	ErrIntentAmbiguous       = errors.New("intent ambiguous")
	ErrClassificationFailure = errors.New("classification failed")
)
