package chair

import "errors"

// Domain errors for emulator operations.
var (
	// ErrUnknownDirection indicates an obstacle direction name that is not
	// front, rear, left, or right. Identifier errors are rejected, never
	// clamped.
	ErrUnknownDirection = errors.New("chair: unknown proximity direction")

	// ErrInvalidConfig indicates a configuration value that would make the
	// simulation degenerate (zero divisor, inverted bounds).
	ErrInvalidConfig = errors.New("chair: invalid configuration")

	// ErrNonFiniteState indicates an integration step produced NaN or Inf.
	ErrNonFiniteState = errors.New("chair: state is not finite")
)
