// Package repository holds the error taxonomy shared by the order stores.
package repository

import "errors"

var (
	// ErrStoreUnavailable indicates the orders could not be read from the store.
	ErrStoreUnavailable = errors.New("order store unavailable")

	// ErrStoreWrite indicates an insert or delete was not applied by the store.
	ErrStoreWrite = errors.New("order store write failed")

	// ErrNotFound indicates no order matches the requested identifier.
	ErrNotFound = errors.New("order not found")
)
