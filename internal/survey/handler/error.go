package handler

import (
	"errors"
	"net/http"

	"sitesurvey/internal/survey/model"
	"sitesurvey/internal/survey/service"
)

// Helper to map errors to HTTP status and body
func httpError(err error) (int, interface{}) {
	var code string
	var msg string
	var status int

	switch {
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
		code = "forbidden"
		msg = "Permission denied"
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
		code = "not_found"
		msg = "Record not found"
	case errors.Is(err, service.ErrBadRequest):
		status = http.StatusBadRequest
		code = "bad_request"
		msg = "Invalid input"
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
		code = "unauthorized"
		msg = "Unauthorized"
	default:
		status = http.StatusInternalServerError
		code = "internal_error"
		msg = err.Error()
	}

	return status, model.ErrorResponse{
		Error: model.ErrorDetail{Code: code, Message: msg},
	}
}

func validationError(err error) model.ErrorResponse {
	if e, ok := err.(*model.ErrorDetail); ok {
		return model.ErrorResponse{Error: *e}
	}
	return model.ErrorResponse{
		Error: model.ErrorDetail{Code: "bad_request", Message: err.Error()},
	}
}
