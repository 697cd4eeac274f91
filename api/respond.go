package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"datagate/core"
	"datagate/engine"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// writeFailure writes a failure envelope with the given status code
func writeFailure(w http.ResponseWriter, statusCode int, message, detail string) {
	writeJSON(w, statusCode, &core.Result{
		Success: false,
		Message: message,
		Error:   detail,
	})
}

// writeValidationError maps normalizer failures onto 400 responses
func writeValidationError(w http.ResponseWriter, err error) {
	writeFailure(w, http.StatusBadRequest, err.Error(), "")
}

// writeEngineError maps forwarder failures onto 500 responses, keeping the
// two downstream failure classes distinguishable for operators
func writeEngineError(w http.ResponseWriter, err error) {
	var engErr *engine.Error
	if errors.As(err, &engErr) {
		if engErr.Connectivity() {
			writeFailure(w, http.StatusInternalServerError, engine.ConnectivityMessage, engine.ConnectivityMessage)
			return
		}
		writeFailure(w, http.StatusInternalServerError, "data engine error: "+engErr.Message, engErr.Message)
		return
	}
	writeFailure(w, http.StatusInternalServerError, "unexpected gateway error", err.Error())
}
