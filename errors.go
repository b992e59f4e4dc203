package entidx

import "errors"

var (
	// ErrNoEntities is returned by LookupSingle when no entity matched
	// the value.
	ErrNoEntities = errors.New("no entities matched")

	// ErrMultipleEntities is returned by LookupSingle when more than one
	// entity matched the value.
	ErrMultipleEntities = errors.New("multiple entities matched")
)
