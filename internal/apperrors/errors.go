package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("resource state conflict")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrUnbalanced indicates that a journal entry's debits do not equal its credits.
var ErrUnbalanced = errors.New("journal entry is unbalanced")

// ErrPeriodLocked indicates that the target date falls inside a locked fiscal period.
var ErrPeriodLocked = errors.New("fiscal period is locked")

// ErrNoPostingRule indicates that no posting rule exists for a document type.
// Callers treat this as "cannot post yet", not as a hard failure.
var ErrNoPostingRule = errors.New("no posting rule for document type")

// ErrMissingAccount indicates that a canonical account required by a posting
// rule is missing from the registry. Treated the same as ErrNoPostingRule.
var ErrMissingAccount = errors.New("required account missing from registry")
