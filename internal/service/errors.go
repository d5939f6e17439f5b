package service

// The services report failures through a small typed taxonomy. The HTTP
// layer maps each type to a status code; messages are user-visible so the
// client can distinguish e.g. "already in your list" from a generic failure.

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports that a referenced User, Game or UserGame is absent.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ConflictError reports a duplicate membership or unique-constraint violation.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// AuthError reports a missing or invalid identity.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }
