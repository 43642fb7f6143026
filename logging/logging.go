/*
Package logging configures logrus for the service and provides the HTTP
request logger.

OUTPUT:
  Text format with full RFC 3339 timestamps. When a log file is configured
  the output goes to a lumberjack rotator (10 MB per file, 7 backups,
  7 days, compressed) as well as stderr.

REQUEST LOG:
  One line per request at Info (Warn for 4xx, Error for 5xx) with
  request_id, method, path, status, bytes and latency.
*/
package logging

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the log level and optional rotating file.
type Options struct {
	Level string
	File  string
}

// New builds a logger per opts. An empty level means info.
func New(opts Options) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}
	logger.SetLevel(level)

	var out io.Writer = os.Stderr
	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 7,
			MaxAge:     7, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stderr, rotator)
	}
	logger.SetOutput(out)
	return logger, nil
}

// RequestLogger is a chi middleware that logs every request through logger.
// It expects middleware.RequestID to run first.
func RequestLogger(logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				entry := logger.WithFields(logrus.Fields{
					"request_id": middleware.GetReqID(r.Context()),
					"method":     r.Method,
					"path":       r.URL.Path,
					"status":     status,
					"bytes":      ww.BytesWritten(),
					"latency":    time.Since(start).String(),
				})
				switch {
				case status >= 500:
					entry.Error("request completed")
				case status >= 400:
					entry.Warn("request completed")
				default:
					entry.Info("request completed")
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
