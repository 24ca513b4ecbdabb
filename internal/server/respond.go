package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	errs "github.com/matzehuels/rothko/pkg/errors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	if errs.IsValidation(err) {
		return http.StatusBadRequest
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeNotFound:
		return http.StatusNotFound
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// writeError writes err as JSON. Uncoded errors are reported as internal
// without their text.
func writeError(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	body := errorBody{Code: string(code), Message: errs.UserMessage(err)}
	if code == "" {
		body = errorBody{Code: string(errs.ErrCodeInternal), Message: "internal error"}
	}
	writeJSON(w, statusFor(err), body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
