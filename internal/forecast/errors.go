package forecast

import "github.com/pkg/errors"

var (
	// ErrInsufficientHistory means too few records or dated entries to build
	// a single feature window.
	ErrInsufficientHistory = errors.New("insufficient sales history")
	// ErrTraining covers every failure while fitting the model.
	ErrTraining = errors.New("forecast model training failed")
)
