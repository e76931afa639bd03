package cipher

import (
	"context"
	"errors"

	"github.com/RowanDark/cipherlab/internal/numtheory"
)

// Error kinds reported by Classify.
const (
	KindMalformedInput   = "malformed_input"
	KindNotInvertible    = "not_invertible"
	KindUnknownOperation = "unknown_operation"
	KindCanceled         = "canceled"
	KindInternal         = "internal"
)

// Classify maps an operation error onto a stable kind for journals,
// metrics and exit codes. A nil error has no kind.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownOperation):
		return KindUnknownOperation
	case errors.Is(err, numtheory.ErrNotInvertible):
		return KindNotInvertible
	case errors.Is(err, numtheory.ErrMalformedInput):
		return KindMalformedInput
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindInternal
	}
}

// IsKeyError reports whether err was caused by an unusable key.
func IsKeyError(err error) bool {
	k := Classify(err)
	return k == KindNotInvertible || k == KindMalformedInput
}
