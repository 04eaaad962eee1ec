package monitor

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Alia5/pijoy/apitypes"
	"github.com/Alia5/pijoy/driver"
)

// Factory helpers returning *apitypes.ApiError (single canonical error type).
func ErrBadRequest(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: http.StatusBadRequest, Title: "Bad Request", Detail: detail}
}
func ErrNotFound(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: http.StatusNotFound, Title: "Not Found", Detail: detail}
}
func ErrConflict(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: http.StatusConflict, Title: "Conflict", Detail: detail}
}
func ErrUnavailable(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: http.StatusServiceUnavailable, Title: "Service Unavailable", Detail: detail}
}
func ErrInternal(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: http.StatusInternalServerError, Title: "Internal Server Error", Detail: detail}
}

// WrapError normalizes any error into *apitypes.ApiError, mapping driver
// sentinels to their HTTP status.
func WrapError(err error) *apitypes.ApiError {
	if err == nil {
		return nil
	}
	var ae *apitypes.ApiError
	if errors.As(err, &ae) {
		return ae
	}
	switch {
	case errors.Is(err, driver.ErrLineUnavailable):
		return ErrConflict(err.Error())
	case errors.Is(err, driver.ErrInterrupted), errors.Is(err, driver.ErrClosed):
		return ErrUnavailable(err.Error())
	}
	return ErrInternal(err.Error())
}

func writeError(w http.ResponseWriter, err error) {
	apiErr := WrapError(err)
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(apiErr.Status)
	_ = json.NewEncoder(w).Encode(apiErr)
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(append(data, '\n'))
}
