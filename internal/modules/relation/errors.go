package relation

import "errors"

var (
	ErrInvalidKind    = errors.New("invalid_relation_kind")
	ErrSelfReference  = errors.New("self_reference")
	ErrAlreadyExists  = errors.New("already_exists")
	ErrNotFound       = errors.New("relation_not_found")
	ErrTargetNotFound = errors.New("target_not_found")
	ErrConflict       = errors.New("conflict")
)
