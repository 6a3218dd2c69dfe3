package service

import "errors"

// Common service errors
var (
	// ErrNoSession is returned when a mutation is attempted without a visitor session
	ErrNoSession = errors.New("no visitor session")
)
