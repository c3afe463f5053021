package apperr

import "errors"

var (
	ErrInputNotFound     = errors.New("input folder not found")
	ErrMissingSystemFile = errors.New("missing system file")
	ErrInvalidOutput     = errors.New("invalid output folder")
)
