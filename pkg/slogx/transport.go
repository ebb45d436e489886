package slogx

import (
	"log/slog"
	"net/http"
	"time"
)

// Transport logs every outgoing request at debug level. The Authorization
// header is never logged.
type Transport struct {
	Base   http.RoundTripper
	Logger *slog.Logger
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	resp, err := base.RoundTrip(req)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		logger.Debug("http_client_request",
			"method", req.Method,
			"url", req.URL.Redacted(),
			"duration_ms", elapsed,
			"err", err,
		)
		return nil, err
	}

	logger.Debug("http_client_request",
		"method", req.Method,
		"url", req.URL.Redacted(),
		"status", resp.StatusCode,
		"duration_ms", elapsed,
		"bearer", req.Header.Get("Authorization") != "",
	)
	return resp, nil
}
