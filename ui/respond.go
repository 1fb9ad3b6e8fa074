package ui

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/adapters/plot"
	apperrors "github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/internal/errors"
)

// errorResponse is the JSON body of every failed API call
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (a *App) writeError(w http.ResponseWriter, err error) {
	appErr := apperrors.FromDomain(err)
	status := statusFor(appErr.Code)
	if errors.Is(err, plot.ErrNoPoints) {
		status = http.StatusUnprocessableEntity
	}
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed: %v", err)
	} else {
		a.logger.Debug("request rejected (%s): %v", appErr.Code, err)
	}
	writeJSON(w, status, errorResponse{Error: appErr.Error(), Code: appErr.Code})
}

func statusFor(code string) int {
	switch code {
	case apperrors.CodeInvalidGrouping, apperrors.CodeUnequalSampleSize,
		apperrors.CodeUnsupportedCorrection, apperrors.CodeInvalidInput,
		apperrors.CodeValidationError:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeCanceled:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
