package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	"izakaya-order/internal/logger"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// ErrContentType is returned by DecodeJSON for non-JSON bodies
var ErrContentType = errors.New("content type must be application/json")

// RequestID returns the id assigned by WithLogging, or a fresh one outside it
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return logger.GenerateRequestID()
}

// Responder writes JSON bodies and logs encoding failures
type Responder struct {
	logger *logger.Logger
}

func NewResponder(log *logger.Logger) Responder {
	return Responder{logger: log}
}

// JSON writes v with statusCode
func (rs Responder) JSON(w http.ResponseWriter, statusCode int, v interface{}, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		rs.logger.Error("response_encoding_failed", "Failed to encode response", requestID, err, nil)
	}
}

// Error writes an error response in JSON format
func (rs Responder) Error(w http.ResponseWriter, statusCode int, message, requestID string) {
	rs.JSON(w, statusCode, map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	}, requestID)
}

// DecodeJSON parses a JSON request body into v, rejecting unknown fields
func DecodeJSON(r *http.Request, v interface{}) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return ErrContentType
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON format: %w", err)
	}
	return nil
}

// WithLogging assigns a request id and logs every request with its outcome
func WithLogging(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := logger.GenerateRequestID()

			r = r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID))

			log.Debug("request_started",
				fmt.Sprintf("%s %s", r.Method, r.URL.Path),
				requestID,
				map[string]interface{}{
					"method":      r.Method,
					"path":        r.URL.Path,
					"remote_addr": r.RemoteAddr,
					"user_agent":  r.Header.Get("User-Agent"),
				})

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			log.Debug("request_completed",
				fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, rw.statusCode),
				requestID,
				map[string]interface{}{
					"method":      r.Method,
					"path":        r.URL.Path,
					"status_code": rw.statusCode,
					"duration_ms": time.Since(start).Milliseconds(),
				})
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// HealthCheck reports whether every check passes
type HealthCheck func(ctx context.Context) error

// Health handles GET /health for service
func Health(service string, log *logger.Logger, checks ...HealthCheck) http.HandlerFunc {
	rs := NewResponder(log)
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		healthy := true
		for _, check := range checks {
			if err := check(ctx); err != nil {
				log.Warn("health_check_failed", "Dependency unhealthy", RequestID(r.Context()), map[string]interface{}{
					"reason": err.Error(),
				})
				healthy = false
			}
		}

		response := map[string]interface{}{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   service,
			"healthy":   healthy,
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
			response["status"] = "unhealthy"
		}
		rs.JSON(w, status, response, RequestID(r.Context()))
	}
}
