package terminal

import "errors"

// ErrAborted signals the user aborted input (e.g., Ctrl+C) or quit.
var ErrAborted = errors.New("terminal: aborted")
