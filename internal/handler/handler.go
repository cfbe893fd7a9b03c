// Package handler adapts HTTP requests to the service layer.
package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"eshop/internal/model"
	"eshop/internal/response"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// countResponse bodies are keyed per resource, e.g. {"productCount": 3}.
type countResponse map[string]int64

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	response.JSON(w, status, data)
}

// writeMessage writes the {success, message} body used by deletes.
func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, model.MessageResponse{Success: true, Message: message})
}

// decodeJSON decodes the request body into dst. Any malformed body is reported
// as a BadRequest.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		return model.ErrInvalidBody
	}
	return nil
}

// pathID parses the named chi URL parameter as an object id.
func pathID(r *http.Request, param, resource string) (primitive.ObjectID, error) {
	return model.ParseID(chi.URLParam(r, param), resource)
}

// baseURL returns scheme://host of the request, honouring X-Forwarded-Proto.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
