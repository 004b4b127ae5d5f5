package logger

import (
	"log/slog"
	"time"

	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

var grpcJSON = protojson.MarshalOptions{EmitUnpopulated: true, UseProtoNames: true}

// GRPCRequestAttrs describes an incoming unary call. Only the health service is
// served, so messages are small and logged whole.
func GRPCRequestAttrs(fullMethod, remote string, md metadata.MD, req any) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("grpc.method", fullMethod),
		slog.String("grpc.remote", remote),
	}
	attrs = append(attrs, headerAttrs("grpc.header.", md)...)
	return append(attrs, protoAttrs("grpc.request", req)...)
}

// GRPCResponseAttrs describes the outcome of a unary call.
func GRPCResponseAttrs(fullMethod string, err error, resp any, elapsed time.Duration) []slog.Attr {
	st := status.Convert(err)
	attrs := []slog.Attr{
		slog.String("grpc.method", fullMethod),
		slog.String("grpc.code", st.Code().String()),
		slog.Int64("duration_ms", elapsed.Milliseconds()),
	}
	if err != nil {
		attrs = append(attrs, slog.String("grpc.error", st.Message()))
	}
	return append(attrs, protoAttrs("grpc.response", resp)...)
}

func protoAttrs(prefix string, m any) []slog.Attr {
	pm, ok := m.(proto.Message)
	if !ok || pm == nil {
		return nil
	}
	b, err := grpcJSON.Marshal(pm)
	if err != nil {
		return []slog.Attr{slog.String(prefix+".error", err.Error())}
	}
	attrs, _ := jsonAttrsWithPrefix(prefix, b)
	return attrs
}
