package response

import (
	"encoding/json"
	"net/http"

	"github.com/edvin/customerapi/internal/model"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is the body written by WriteError.
type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// WriteFieldErrors writes a 400 whose body is the field-to-messages map itself.
func WriteFieldErrors(w http.ResponseWriter, errs map[string][]string) {
	WriteJSON(w, http.StatusBadRequest, errs)
}

// Message is the body of a successful write.
type Message struct {
	Message string `json:"message"`
	ID      *int64 `json:"id,omitempty"`
}

// Customers returns the list projection of cs. It is never nil, so an empty
// table serializes as [] rather than null.
func Customers(cs []model.Customer) []model.Customer {
	if cs == nil {
		return []model.Customer{}
	}
	return cs
}
