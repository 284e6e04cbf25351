package discovery

import "errors"

var (
	// ErrUnknownStrategy is returned by NewStrategy for an unrecognised name.
	ErrUnknownStrategy = errors.New("discovery: unknown selection strategy")

	// ErrNoInstances is returned by providers that know the service but have
	// no instances for it.
	ErrNoInstances = errors.New("discovery: no instances available")
)
