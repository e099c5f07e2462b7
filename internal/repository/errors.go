// Package repository contains the data access layer.  This file defines
// sentinel errors shared across repositories so that the service layer can
// distinguish failure scenarios without inspecting driver error strings.
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned by UserRepo.Create when the email address is
// already registered.
var ErrEmailExists = errors.New("email already exists")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers should translate this into an HTTP
// 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrDuplicate is returned when a uniqueness constraint other than the user
// email is violated, such as favoriting the same property twice.
var ErrDuplicate = errors.New("duplicate")
