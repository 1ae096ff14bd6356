package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Field helpers for names used throughout the detection pipeline
func Model(name string) Field {
	return String("model", name)
}

func RunID(id string) Field {
	return String("run_id", id)
}

func Iteration(n int) Field {
	return Int("iteration", n)
}

func Parameter(name string, value float64) Field {
	return Float64(name, value)
}

func LogLikelihood(ll float64) Field {
	return Float64("log_likelihood", ll)
}

func Communities(n int) Field {
	return Int("communities", n)
}

func Levels(n int) Field {
	return Int("levels", n)
}

func Moves(n int) Field {
	return Int("moves", n)
}
