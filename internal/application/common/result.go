// Package common holds shared application-layer types for the sample app.
package common

// OperationResult carries a handler outcome together with non-fatal
// messages accumulated along the way.
type OperationResult[T any] struct {
	Value    T
	Messages []string
}

// Result wraps a value in a successful OperationResult.
func Result[T any](value T, messages ...string) OperationResult[T] {
	return OperationResult[T]{Value: value, Messages: messages}
}
