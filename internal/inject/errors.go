package inject

import "errors"

// ErrMismatch is returned when the translator file's record count does not
// match the scanned record count of the script being injected into. The
// whole file fails and no output is written.
var ErrMismatch = errors.New("inject: translator line count does not match record count")

// ErrLostAnchor is returned when a record's original byte sequence cannot
// be found at or after the rewrite cursor, meaning the script body and the
// record list the caller supplied are no longer consistent.
var ErrLostAnchor = errors.New("inject: original record bytes not found at rewrite cursor")
