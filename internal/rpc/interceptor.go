package rpc

import (
	"context"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/RowanDark/cipherlab/internal/logging"
	"github.com/RowanDark/cipherlab/internal/observability/metrics"
)

// UnaryServerInterceptor records request metrics for every unary call and
// writes an rpc_call audit event for calls that fail.
func UnaryServerInterceptor(audit *logging.AuditLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		method := methodName(info.FullMethod)
		metrics.RecordRPCRequest(method)
		start := time.Now()

		resp, err := handler(ctx, req)

		code := status.Code(err).String()
		metrics.ObserveRPCLatency(ctx, method, code, time.Since(start))
		if err != nil {
			metrics.RecordRPCError(method, code)
			if audit != nil {
				_ = audit.Emit(logging.AuditEvent{
					EventType: logging.EventRPCCall,
					Operation: method,
					Decision:  logging.DecisionDeny,
					Reason:    status.Convert(err).Message(),
					Metadata:  map[string]any{"code": code},
				})
			}
		}
		return resp, err
	}
}

func methodName(fullMethod string) string {
	if i := strings.LastIndex(fullMethod, "/"); i >= 0 {
		return fullMethod[i+1:]
	}
	return fullMethod
}
