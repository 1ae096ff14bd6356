package detect

import "fmt"

// ConfigurationError reports an invalid model name or option set. It is
// fatal and surfaced immediately at entry.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// ValidationError reports a model parameter outside its valid domain.
type ValidationError struct {
	Parameter string
	Value     float64
	Reason    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%g: %s", e.Parameter, e.Value, e.Reason)
}

// OptimizationError reports a failed numeric parameter estimation.
// LastParameter carries the last valid estimate so callers can fall back.
type OptimizationError struct {
	LastParameter float64
	Err           error
}

func (e *OptimizationError) Error() string {
	return fmt.Sprintf("parameter optimization failed (last valid estimate %g): %v", e.LastParameter, e.Err)
}

func (e *OptimizationError) Unwrap() error { return e.Err }
