package contextmgr

import "errors"

// ErrInvalidArgument is returned for nil inputs and unusable configuration.
var ErrInvalidArgument = errors.New("invalid argument")
