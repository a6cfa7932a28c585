package httperror

import "github.com/gofiber/fiber/v2"

// CommonError is the structured error carried inside a usecase result.
// Code maps directly to the HTTP status the controller responds with.
type CommonError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Type     string `json:"type,omitempty"`
	Details  string `json:"details,omitempty"`
	CodeName string `json:"code_name,omitempty"`
}

func (e *CommonError) Error() string {
	return e.Message
}

func NewBadRequest() *CommonError {
	return &CommonError{
		Code:    fiber.StatusBadRequest,
		Message: "bad request",
		Type:    "bad_request",
	}
}

func NewUnauthorized() *CommonError {
	return &CommonError{
		Code:    fiber.StatusUnauthorized,
		Message: "unauthorized",
		Type:    "unauthorized",
	}
}

func NewForbidden() *CommonError {
	return &CommonError{
		Code:    fiber.StatusForbidden,
		Message: "forbidden",
		Type:    "forbidden",
	}
}

func NewNotFound() *CommonError {
	return &CommonError{
		Code:    fiber.StatusNotFound,
		Message: "not found",
		Type:    "not_found",
	}
}

func NewConflict() *CommonError {
	return &CommonError{
		Code:    fiber.StatusConflict,
		Message: "conflict",
		Type:    "conflict",
	}
}

func NewInternalServerError() *CommonError {
	return &CommonError{
		Code:    fiber.StatusInternalServerError,
		Message: "unexpected error, try again later",
		Type:    "internal_server_error",
	}
}
