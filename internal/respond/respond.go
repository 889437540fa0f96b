// Package respond writes the JSON bodies shared by handlers and middleware.
// Errors use {"error": "..."}; deletes and other acknowledgements use {"message": "..."}.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

// JSON writes v with the given status code
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorBody{Error: message})
}

func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, messageBody{Message: message})
}
