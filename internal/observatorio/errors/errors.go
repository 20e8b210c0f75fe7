package errors

import (
	"fmt"
)

var (
	ErrNotFound         = fmt.Errorf("not found")
	ErrDuplicate        = fmt.Errorf("duplicate record")
	ErrInvalidReference = fmt.Errorf("invalid reference")
	ErrInvalidInput     = fmt.Errorf("invalid input")
	ErrUnauthorized     = fmt.Errorf("unauthorized")
)
