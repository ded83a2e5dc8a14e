package appmon

import "errors"

var (
	// ErrNoID indicates that the monitor was configured without an
	// identity tag.
	ErrNoID = errors.New("appmon: monitor id is required")

	// ErrNoEmitter indicates that the monitor has nowhere to send its
	// samples.
	ErrNoEmitter = errors.New("appmon: an emitter is required")

	// ErrNoTarget indicates that neither a pid nor a commandline
	// pattern was configured.
	ErrNoTarget = errors.New("appmon: either a pid or a commandline pattern is required")

	// ErrBothTargets indicates that both a pid and a commandline
	// pattern were configured; the target must be exactly one of them.
	ErrBothTargets = errors.New("appmon: pid and commandline are mutually exclusive")
)
