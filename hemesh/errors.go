package hemesh

import "errors"

// Errors
var (
	ErrNilMesh          = errors.New("nil mesh")
	ErrTooFewPoints     = errors.New("a face needs at least 3 points")
	ErrInvalidArguments = errors.New("invalid arguments")
	ErrBrokenTopology   = errors.New("bad or inconsistent half-edge configuration")
	ErrBadScript        = errors.New("bad mesh script")
	ErrUnknownName      = errors.New("unknown element name")
	ErrDuplicateName    = errors.New("element name already in use")
)
