package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/discograph/pkg/controller"
	apperr "github.com/matzehuels/discograph/pkg/errors"
)

type errorResponse struct {
	Error  string             `json:"error"`
	Code   apperr.Code        `json:"code"`
	Notice *controller.Notice `json:"notice,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError answers with the status mapped from err's code. Server-side
// failures get a generic message.
func writeError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	code := apperr.GetCode(err)
	if code == "" {
		code = apperr.ErrCodeInternal
	}

	resp := errorResponse{Code: code, Error: apperr.UserMessage(err)}
	if status >= http.StatusInternalServerError {
		resp.Error = "upstream request failed"
		if code == apperr.ErrCodeInternal {
			resp.Error = "internal error"
		}
	}
	if n := controller.NoticeFor(err); !n.IsZero() {
		resp.Notice = &n
	}
	writeJSON(w, status, resp)
}
