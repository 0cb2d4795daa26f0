package install

import (
	"errors"
	"fmt"
)

// Kind classifies install failures.
type Kind int

const (
	// AlreadyInstalled means a configuration record exists. Callers should
	// send the visitor elsewhere.
	AlreadyInstalled Kind = iota + 1
	// ResourcePermission means required locations are not accessible.
	ResourcePermission
	// SessionMisconfigured means a session write did not survive a reload.
	SessionMisconfigured
	// PersistenceFailure means the configuration record could not be written.
	PersistenceFailure
	// SeedFailure means the record was written but seeding bookmarks failed.
	SeedFailure
)

func (k Kind) String() string {
	switch k {
	case AlreadyInstalled:
		return "already_installed"
	case ResourcePermission:
		return "resource_permission"
	case SessionMisconfigured:
		return "session_misconfigured"
	case PersistenceFailure:
		return "persistence_failure"
	case SeedFailure:
		return "seed_failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by the install operations.
type Error struct {
	Kind    Kind
	Message string
	// Details lists individual problems, e.g. one entry per unwritable path.
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind carried by err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return 0
}
