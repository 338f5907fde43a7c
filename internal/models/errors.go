package models

import "errors"

// Custom errors
var (
	ErrUnknownSport    = errors.New("unknown sport")
	ErrUnknownPropType = errors.New("unknown prop type")
	ErrUnknownTier     = errors.New("unknown tier")
)
