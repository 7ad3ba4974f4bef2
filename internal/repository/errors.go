// Package repository implements persistence over database/sql.  This file
// defines the sentinel errors shared across repositories so that handlers
// can map failures to HTTP codes without inspecting SQL errors.
package repository

import "errors"

// ErrNotFound is returned when a row does not exist.  Handlers translate it
// into a 404, and the notification router into an aborted fan-out.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else, e.g. marking another user's notification
// read.  Handlers translate it into a 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an insert collides with existing state, such
// as registering an email that already has an account.  Handlers translate
// it into a 409.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is a more specific conflict raised by user creation.
var ErrEmailExists = errors.New("email already exists")
