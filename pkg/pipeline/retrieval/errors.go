package retrieval

import "errors"

// ErrUnavailable marks a transient failure of the embedding provider or the
// corpus store. Callers match it with errors.Is and degrade gracefully.
var ErrUnavailable = errors.New("retrieval unavailable")
