// Package obs holds the ambient observability sinks shared across
// transports and the router: a logrus logger and, optionally,
// Prometheus counters/histograms. Both are safe to leave nil — LogRequest
// and Metrics.Observe are no-ops on a nil logger or nil metrics.
package obs

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/webpp-sub002/corehttp/httpmsg"
)

// NewLogger returns a logrus.Logger configured the way this module's
// transports and cmd/corehttpd expect: JSON output, level parsed from a
// plain string (falling back to Info on an unrecognized level).
func NewLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// RequestFields builds the logrus.Fields attached to every per-request
// log line: request id, method, path, status, and how long dispatch
// took. LogRequest calls this once a response exists; it is nil-safe
// only in the sense that the caller is expected to have a non-nil
// logger already — see LogRequest for the nil-logger-safe entry point.
func RequestFields(requestID, method, path string, status int, dur time.Duration) logrus.Fields {
	return logrus.Fields{
		"request_id":  requestID,
		"method":      method,
		"path":        path,
		"status":      status,
		"duration_ms": dur.Milliseconds(),
	}
}

// LogRequest emits one structured log line for a completed dispatch. It
// is a no-op when log is nil, so the routers' Serve methods call it
// unconditionally.
func LogRequest(log *logrus.Logger, requestID string, req *httpmsg.Request, resp *httpmsg.Response, dur time.Duration) {
	if log == nil {
		return
	}
	log.WithFields(RequestFields(requestID, req.Method, req.URI, resp.Headers.StatusCode, dur)).Info("request handled")
}
