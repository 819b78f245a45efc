package domain

import "errors"

// ErrInvalidCredentials covers both "no such account" and "wrong password";
// callers must not be able to tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidOTP covers wrong, expired, and already-consumed codes alike.
var ErrInvalidOTP = errors.New("invalid or expired code")

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrNoAdminRecord = errors.New("no administrative record")
var ErrForbidden = errors.New("access forbidden")

var ErrSessionRequired = errors.New("authentication required")
var ErrSessionInvalid = errors.New("invalid session")
