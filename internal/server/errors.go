package server

import (
	"net/http"

	"github.com/mkhare/splitledger/internal/errdefs"
)

// errorBody is the 400-level payload: a short machine-readable message.
type errorBody struct {
	Error string `json:"error"`
}

// failureBody is the 500-level payload used by the generic handler.
type failureBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// writeError maps a classified error onto the wire.
//
// Validation failures go through the generic 500 path with a
// {status,message} body. That mirrors the API this service replaces, where
// schema failures fell through to the catch-all handler; kept for
// compatibility even though they are caller mistakes.
func writeError(w http.ResponseWriter, err error) {
	switch errdefs.KindOf(err) {
	case errdefs.KindValidation:
		respondJSON(w, http.StatusInternalServerError, failureBody{
			Status:  http.StatusInternalServerError,
			Message: err.Error(),
		})
	case errdefs.KindBusinessRule, errdefs.KindConflict, errdefs.KindNotFound:
		respondJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		respondJSON(w, http.StatusInternalServerError, failureBody{
			Status:  http.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}
