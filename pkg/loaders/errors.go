package loaders

import "errors"

// Sentinel errors wrapped by the scene and mesh loaders; match with errors.Is
var (
	ErrUnknownType   = errors.New("unknown type")
	ErrMissingField  = errors.New("missing field")
	ErrInvalidNumber = errors.New("invalid number")
	ErrInvalidIndex  = errors.New("invalid index")
)
