package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/wayapps/waysite/internal/errors"
	"github.com/wayapps/waysite/internal/logger"
)

type errorResponse struct {
	Error    string            `json:"error"`
	Message  string            `json:"message"`
	Fields   map[string]string `json:"fields,omitempty"`
	UnlockAt *time.Time        `json:"unlockAt,omitempty"`
}

// WriteError renders err as a JSON error body. Errors without a status code
// are 500s and their detail is not leaked to the client.
func WriteError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	if e, ok := err.(*errors.ErrorWithStatusCode); ok {
		kind := e.Kind
		if kind == "" {
			kind = http.StatusText(e.StatusCode)
		}
		w.WriteHeader(e.StatusCode)
		json.NewEncoder(w).Encode(errorResponse{Error: kind, Message: e.Message, Fields: e.Fields, UnlockAt: e.UnlockAt})
		return
	}
	logger.Log.Error("unhandled error", "error", err)
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(errorResponse{Error: errors.KindServer, Message: "An unexpected error occurred"})
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeValidate decodes a JSON body into dst and validates struct tags.
// Violations come back as a 400 with one message per failing field.
func DecodeValidate(r io.Reader, dst any) error {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return errors.Validation("Body is invalid json", nil)
	}
	if err := validate.Struct(dst); err != nil {
		if _, ok := err.(*validator.InvalidValidationError); ok {
			// Non-struct payloads (maps, slices) carry no tags to check.
			return nil
		}
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return errors.Validation("Validation failed", nil)
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldName(fe)] = fieldMessage(fe)
		}
		return errors.Validation("Validation failed", fields)
	}
	return nil
}

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	return strings.ToLower(name[:1]) + name[1:]
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// ClientIP extracts the client IP. Forwarding headers are only honored when
// trustProxy is set; otherwise the TCP peer address is authoritative, since
// headers are trivially spoofable without a reverse proxy in front.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if ip := r.Header.Get("X-Real-IP"); net.ParseIP(ip) != nil {
			return ip
		}
		for _, ip := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
			ip = strings.TrimSpace(ip)
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) == nil {
		return "unknown"
	}
	return ip
}
