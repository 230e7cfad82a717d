package memory

import "errors"

var errMissing = errors.New("missing")
