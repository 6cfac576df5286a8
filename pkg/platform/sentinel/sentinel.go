package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Rate loaders return these
// (optionally wrapped) so the refresher can classify a failed reload.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: the rate table does not exist at its source
// - ErrInvalidState: the source holds a table that cannot be published
// - ErrUnavailable: the source is temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
