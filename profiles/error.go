package profiles

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/altavoz/altavoz-server/database/model"
	"github.com/altavoz/altavoz-server/idhash"
)

// HTTPError represents a structured HTTP error response.
type HTTPError struct {
	Status  int    `json:"status"`
	Type    string `json:"type,omitempty"`
	Title   string `json:"title,omitempty"`
	TraceID string `json:"traceId,omitempty"`
}

// statusTypeMap maps HTTP status codes to RFC 9110 types.
var statusTypeMap = map[int]string{
	400: "https://tools.ietf.org/html/rfc9110#section-15.5.1", // Bad Request
	401: "https://tools.ietf.org/html/rfc9110#section-15.5.2", // Unauthorized
	404: "https://tools.ietf.org/html/rfc9110#section-15.5.5", // Not Found
	405: "https://tools.ietf.org/html/rfc9110#section-15.5.6", // Method Not Allowed
	500: "https://tools.ietf.org/html/rfc9110#section-15.6.1", // Internal Server Error
	503: "https://tools.ietf.org/html/rfc9110#section-15.6.4", // Service Unavailable
}

// apierror writes a structured error response.
func apierror(w http.ResponseWriter, msg string, status int) {
	response := HTTPError{
		Status:  status,
		Title:   msg,
		TraceID: idhash.NewRandomID(),
	}
	if typeUrl, ok := statusTypeMap[status]; ok {
		response.Type = typeUrl
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// repoerror maps repository errors onto the API error taxonomy. Not-found
// and PIN mismatch stay distinct signals; anything else is a storage
// failure surfaced untransformed as a 500.
func repoerror(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		apierror(w, "perfil no encontrado", http.StatusNotFound)
	case errors.Is(err, model.ErrPinMismatch):
		apierror(w, "PIN incorrecto", http.StatusUnauthorized)
	case errors.Is(err, model.ErrInvalidPassword):
		apierror(w, "credenciales incorrectas", http.StatusUnauthorized)
	default:
		apierror(w, err.Error(), http.StatusInternalServerError)
	}
}

func serveJSON(obj any, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	j := json.NewEncoder(w)
	j.SetIndent("", "  ")
	j.Encode(obj)
}
