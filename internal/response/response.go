// Package response writes JSON bodies and the standard failure envelope.
package response

import (
	"context"
	"encoding/json"
	"net/http"

	"eshop/internal/model"

	"github.com/rs/zerolog"
)

type requestIDKey struct{}

// WithRequestID returns a copy of ctx carrying the request correlation id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation id of the request, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// The status line is already written; an encode failure only means the client went away.
	_ = json.NewEncoder(w).Encode(data)
}

// Error maps err onto the failure envelope. Domain errors keep their code and
// message; anything else is logged and reported as a generic internal error.
func Error(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	requestID := RequestID(r.Context())

	de, ok := model.AsDomainError(err)
	if !ok {
		logger.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", requestID).
			Msg("internal error")
		de = model.NewDomainError(model.ErrCodeInternalError, "internal server error")
	} else {
		logger.Debug().
			Str("code", de.Code).
			Str("message", de.Message).
			Str("path", r.URL.Path).
			Str("request_id", requestID).
			Msg("request rejected")
	}

	JSON(w, de.HTTPStatus(), model.ErrorResponse{
		Success: false,
		Message: de.Message,
		Error: &model.ErrorDetail{
			Code:   de.Code,
			Fields: de.Fields,
		},
		CorrelationID: requestID,
	})
}
