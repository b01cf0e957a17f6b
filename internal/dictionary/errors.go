package dictionary

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned for malformed terms or clicked-span keys.
// Invalid input is rejected before any cache or oracle interaction.
var ErrInvalidInput = errors.New("invalid input")

// ErrIndexOutOfRange is returned when a word index falls outside a definition.
var ErrIndexOutOfRange = fmt.Errorf("%w: word index out of range", ErrInvalidInput)

// OracleError wraps any failure of a resolution oracle call: transport
// errors, timeouts, and empty or malformed responses.
type OracleError struct {
	Op  string // "define_term", "disambiguate_click", "define_in_context"
	Err error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("oracle %s failed: %v", e.Op, e.Err)
}

func (e *OracleError) Unwrap() error {
	return e.Err
}

// IsOracleError reports whether err is (or wraps) an *OracleError.
func IsOracleError(err error) bool {
	var oe *OracleError
	return errors.As(err, &oe)
}

func oracleErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var oe *OracleError
	if errors.As(err, &oe) {
		return err
	}
	return &OracleError{Op: op, Err: err}
}
