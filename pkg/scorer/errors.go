package scorer

import (
	"errors"
	"fmt"
)

// TooShortError is returned when the input is below the minimum length.
type TooShortError struct {
	Min uint
	Got int
}

func (e *TooShortError) Error() string {
	return fmt.Sprintf("Please select at least %d characters for accurate analysis.", e.Min)
}

// IsTooShort reports whether err is a *TooShortError.
func IsTooShort(err error) bool {
	var t *TooShortError
	return errors.As(err, &t)
}
