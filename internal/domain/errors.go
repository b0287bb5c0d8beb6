// Package domain holds the error sentinels shared by the storage
// packages. Handlers map them to HTTP statuses.
package domain

import "errors"

var (
	// ErrNotFound means the requested note or collection does not exist.
	ErrNotFound = errors.New("not found")
	// ErrBadRequest means a required field (id, cid, date) is missing or invalid.
	ErrBadRequest = errors.New("bad request")
	// ErrUnauthorized means a non-public note was requested through the
	// public endpoint.
	ErrUnauthorized = errors.New("unauthorized")
)
