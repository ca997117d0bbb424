package catalog

import "errors"

var (
	// ErrNoIDs is returned when a by-ids lookup is called without ids.
	// An empty id list is a caller error, not a valid empty-result request.
	ErrNoIDs = errors.New("provide ids")

	// ErrStoreNotFound is returned when a store URL resolves to nothing
	ErrStoreNotFound = errors.New("store not found")

	// ErrVariantWithoutImage is returned when a variant has neither an
	// explicit variant image nor any gallery image. Every variant must
	// carry at least one.
	ErrVariantWithoutImage = errors.New("variant has no image")
)
