package domain

import "errors"

// ErrInvalidInput marks validation failures in service inputs. Wrap it
// with context; handlers map anything matching it to a 400.
var ErrInvalidInput = errors.New("invalid input")
