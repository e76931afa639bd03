package rpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/RowanDark/cipherlab/internal/cipher"
)

// toStatus converts an operation error into a gRPC status error.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(codeFor(err), err.Error())
}

func codeFor(err error) codes.Code {
	switch cipher.Classify(err) {
	case cipher.KindMalformedInput:
		return codes.InvalidArgument
	case cipher.KindNotInvertible:
		return codes.FailedPrecondition
	case cipher.KindUnknownOperation:
		return codes.NotFound
	case cipher.KindCanceled:
		if errors.Is(err, context.DeadlineExceeded) {
			return codes.DeadlineExceeded
		}
		return codes.Canceled
	default:
		return codes.Internal
	}
}

// KindFromStatus maps a status code back to the error kind a local call
// would have reported.
func KindFromStatus(err error) string {
	if err == nil {
		return ""
	}
	switch status.Code(err) {
	case codes.InvalidArgument:
		return cipher.KindMalformedInput
	case codes.FailedPrecondition:
		return cipher.KindNotInvertible
	case codes.NotFound:
		return cipher.KindUnknownOperation
	case codes.Canceled, codes.DeadlineExceeded:
		return cipher.KindCanceled
	default:
		return cipher.KindInternal
	}
}
