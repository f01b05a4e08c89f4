package retry

import "errors"

// ErrInvalidMaxAttempts is returned when a policy is configured with a
// non-positive attempt budget.
var ErrInvalidMaxAttempts = errors.New("max attempts must be greater than zero")
