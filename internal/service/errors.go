package service

import "github.com/pkg/errors"

// ErrInvalidRequest marks caller mistakes; handlers answer them with 400.
var ErrInvalidRequest = errors.New("invalid request")

func invalid(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidRequest, format, args...)
}
