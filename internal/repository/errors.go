// Package repository defines the persistence layer and the sentinel
// errors shared by its repositories.  Handlers and services compare
// against these values with errors.Is to translate storage failures
// into API responses without inspecting driver errors themselves.
package repository

import "errors"

// ErrEmailExists is returned by UserRepo.Create when the email column's
// uniqueness constraint rejects the insert.  Handlers translate it into
// the duplicate-account response.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when no user row matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrTokenNotFound is returned when no ledger row matches a jti.  The
// lifecycle layer reuses it for ownership failures so that "absent" and
// "not owned" are indistinguishable to callers.
var ErrTokenNotFound = errors.New("token not found")

// ErrDuplicateJTI is returned when a ledger insert collides on the jti
// primary key.  Under correct random generation this never happens; it
// signals a broken uniqueness guarantee upstream and is logged as an
// integrity fault rather than surfaced as a normal API error.
var ErrDuplicateJTI = errors.New("duplicate jti")
