package common

import (
	"errors"
	"fmt"
)

var (
	// ErrorInvalidArgument: a parameter has the wrong value or an illegal combination
	ErrorInvalidArgument = errors.New("invalid argument")
	// ErrorDomainMismatch: the requested rate kind is not offered by the data source
	ErrorDomainMismatch = errors.New("domain mismatch")
)

func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrorInvalidArgument, fmt.Sprintf(format, args...))
}

func DomainMismatch(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrorDomainMismatch, fmt.Sprintf(format, args...))
}
