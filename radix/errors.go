package radix

import (
	"errors"
	"fmt"
)

// ErrInvalidDigitWidth is wrapped by every ConfigError.
var ErrInvalidDigitWidth = errors.New("invalid digit width")

// ConfigError reports a digit width outside [1, MaxDigitWidth].
type ConfigError struct {
	Bits int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: bits=%d, must be between 1 and %d", ErrInvalidDigitWidth, e.Bits, MaxDigitWidth)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidDigitWidth
}

func validateDigitWidth(bits int) error {
	if bits < 1 || bits > MaxDigitWidth {
		return &ConfigError{Bits: bits}
	}
	return nil
}
