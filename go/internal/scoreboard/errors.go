package scoreboard

import (
	"errors"
	"fmt"
)

// ErrInvalidCommand is the root of every fail-soft rejection. A rejected
// command leaves the state untouched and produces no snapshot.
var ErrInvalidCommand = errors.New("invalid command")

var (
	ErrInvalidTeam    = fmt.Errorf("%w: unknown team", ErrInvalidCommand)
	ErrInvalidColor   = fmt.Errorf("%w: malformed color", ErrInvalidCommand)
	ErrInvalidAction  = fmt.Errorf("%w: unknown clock action", ErrInvalidCommand)
	ErrUnknownCommand = fmt.Errorf("%w: unknown command", ErrInvalidCommand)
)

// ErrNoChange is returned for a tick that has nothing to do (clock stopped
// or already at zero).
var ErrNoChange = errors.New("no state change")
