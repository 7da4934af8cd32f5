package interceptor

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/logger"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UnaryLogging logs every unary RPC with its status code and duration
func UnaryLogging() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		args := []any{"method", info.FullMethod, "code", code.String(), "duration_ms", time.Since(start).Milliseconds()}
		switch code {
		case codes.OK:
			logger.Debug("grpc request", args...)
		case codes.Internal, codes.Unknown, codes.DataLoss:
			logger.Error("grpc request failed", append(args, "error", err)...)
		default:
			logger.Warn("grpc request failed", append(args, "error", err)...)
		}
		return resp, err
	}
}
