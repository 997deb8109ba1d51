package spy

import "errors"

var (
	// ErrInvalidURL reports that an underlying driver accepted a URL but
	// returned no connection for it. That is a contract violation by the
	// driver and is surfaced to the caller rather than swallowed.
	ErrInvalidURL = errors.New("invalid or unknown driver url")

	// ErrNoDriver reports that no registered underlying driver accepts a
	// URL. The facade itself answers "no match" for this case; the error
	// only appears on paths, such as the database/sql bridge, that cannot
	// express "not mine" any other way.
	ErrNoDriver = errors.New("no underlying driver accepts url")

	// ErrNotSupported reports a query that cannot be answered before any
	// underlying driver has been resolved.
	ErrNotSupported = errors.New("not supported by sqlspy")
)
