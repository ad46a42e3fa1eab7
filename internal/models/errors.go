package models

import "errors"

// Brief precondition errors; the pipeline is not started when these occur.
var (
	ErrBrandRequired   = errors.New("brand is required")
	ErrProductRequired = errors.New("product is required")
)
