package core

import "errors"

// Rejected actions. A returned error always means the world was left untouched.
var (
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrNoBase                = errors.New("no player base")
	ErrUnknownUnitType       = errors.New("unknown unit type")
	ErrUnknownBuildingType   = errors.New("unknown building type")
	ErrNotBuildable          = errors.New("building type is not buildable")
	ErrUnknownUnit           = errors.New("unknown unit")
	ErrOutOfBounds           = errors.New("position out of bounds")
	ErrInvalidSpeed          = errors.New("invalid game speed")
	ErrNoSelection           = errors.New("no units selected")
)
