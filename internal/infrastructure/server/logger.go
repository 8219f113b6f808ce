package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/vocdrill/internal/infrastructure/config"
)

// Logger returns a connect interceptor logging every unary call through logger.
func Logger(logger logrus.FieldLogger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			code := connect.CodeOf(err)
			entry := logger.WithFields(requestFields(req, code, time.Since(start)))
			if err != nil {
				entry = entry.WithError(err)
			} else {
				entry = entry.WithFields(responseFields(resp))
			}
			entry.Log(determineLogLevel(code, err), "request completed")

			return resp, err
		}
	}
}

// responseFields must only be called for successful calls: on error the handler hands back a typed nil response.
func responseFields(resp connect.AnyResponse) logrus.Fields {
	fields := logrus.Fields{"status": "ok"}
	if resp == nil {
		return fields
	}
	if cl := contentLength(resp.Header()); cl >= 0 {
		fields["response_bytes"] = cl
	}
	return fields
}

func determineLogLevel(code connect.Code, err error) logrus.Level {
	if err == nil {
		return logrus.InfoLevel
	}
	switch code {
	case connect.CodeInvalidArgument, connect.CodeFailedPrecondition, connect.CodeNotFound,
		connect.CodeAlreadyExists, connect.CodePermissionDenied, connect.CodeUnauthenticated:
		return logrus.WarnLevel
	default:
		return logrus.ErrorLevel
	}
}

func requestFields(req connect.AnyRequest, code connect.Code, duration time.Duration) logrus.Fields {
	fields := logrus.Fields{
		"procedure": req.Spec().Procedure,
		"status":    code.String(),
		"duration":  duration,
	}

	peer := req.Peer()
	setField(fields, "http_method", req.HTTPMethod())
	setField(fields, "peer_addr", peer.Addr)
	setField(fields, "protocol", peer.Protocol)

	header := req.Header()
	setField(fields, "user_agent", header.Get("User-Agent"))
	setField(fields, "request_id", header.Get("X-Request-Id"))
	setField(fields, "client_ip", firstForwardedFor(header))
	if cl := contentLength(header); cl >= 0 {
		fields["request_bytes"] = cl
	}
	return fields
}

func setField(fields logrus.Fields, key, value string) {
	if value != "" {
		fields[key] = value
	}
}

func firstForwardedFor(header http.Header) string {
	for _, part := range strings.Split(header.Get("X-Forwarded-For"), ",") {
		if candidate := strings.TrimSpace(part); candidate != "" {
			return candidate
		}
	}
	return ""
}

func contentLength(header http.Header) int {
	if header == nil {
		return -1
	}
	if cl := header.Get("Content-Length"); cl != "" {
		if parsed, err := strconv.Atoi(cl); err == nil {
			return parsed
		}
	}
	return -1
}

// NewLogger builds a configured logrus logger from application config.
func NewLogger(cfg *config.Config) (*logrus.Logger, error) {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(level)
	switch cfg.Log.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}
