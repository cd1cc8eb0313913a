package browse

import "errors"

// ErrNoIndexService indicates that no index service was provided.
var ErrNoIndexService = errors.New("index service is required")
