package jsondoc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// SlowOperationThreshold is the duration above which completed operations log at warn level
const SlowOperationThreshold = 100 * time.Millisecond

// logError logs a failed operation and records its type
func (p *Processor) logError(operation, path string, err error) {
	errorType := errorTypeOf(err)
	if p.config.EnableMetrics {
		p.metrics.RecordError(errorType)
	}

	logger := p.logger.Load()
	if logger == nil {
		return
	}
	logger.ErrorContext(context.Background(), "JSON operation failed",
		slog.String("operation", operation),
		slog.String("path", sanitizePath(path)),
		slog.String("error", sanitizeError(err)),
		slog.String("error_type", errorType),
		slog.Int64("error_count", atomic.LoadInt64(&p.errorCount)),
		slog.String("processor_id", p.getProcessorID()),
	)
}

// logOperation logs a completed operation at debug level, or warn when slow
func (p *Processor) logOperation(operation, path string, duration time.Duration) {
	logger := p.logger.Load()
	if logger == nil {
		return
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("path", sanitizePath(path)),
		slog.Int64("duration_ms", duration.Milliseconds()),
	}
	if duration > SlowOperationThreshold {
		attrs = append(attrs, slog.Int64("threshold_ms", SlowOperationThreshold.Milliseconds()))
		logger.LogAttrs(context.Background(), slog.LevelWarn, "Slow JSON operation detected", attrs...)
		return
	}
	logger.LogAttrs(context.Background(), slog.LevelDebug, "JSON operation completed", attrs...)
}

func (p *Processor) getProcessorID() string {
	return fmt.Sprintf("proc_%p", p)
}

// errorTypeOf names the sentinel behind err
func errorTypeOf(err error) string {
	switch {
	case errors.Is(err, ErrProcessorClosed):
		return "processor_closed"
	case errors.Is(err, ErrSizeLimit):
		return "size_limit"
	case errors.Is(err, ErrDepthLimit):
		return "depth_limit"
	case errors.Is(err, ErrPointerInvalid):
		return "invalid_pointer"
	case errors.Is(err, ErrFieldSelectorInvalid):
		return "invalid_selector"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, ErrIllegalArgument):
		return "illegal_argument"
	}
	return "unknown"
}

var sensitivePatterns = []string{
	"password", "passwd", "pwd",
	"token", "bearer",
	"apikey", "api_key", "api-key",
	"secret", "credential",
	"authorization", "session", "cookie",
}

// sanitizePath truncates long paths and hides ones naming credentials
func sanitizePath(path string) string {
	lower := strings.ToLower(path)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(lower, pattern) {
			return "[REDACTED_PATH]"
		}
	}
	return truncate(path, MaxLoggedPathLength)
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return truncate(err.Error(), MaxLoggedErrorLength)
}
