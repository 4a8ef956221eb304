package models

import (
	"errors"
	"net/http"
)

// Виды ошибок, которые сервис возвращает вызывающему.
var (
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("not found")
	ErrDeadlinePassed = errors.New("deadline passed")
	ErrInvalidState   = errors.New("invalid state")
	ErrPermission     = errors.New("permission denied")
)

// ErrorResponse описывает ошибку с кодом и сообщением.
type ErrorResponse struct {
	StatusCode int    `json:"-"`
	Message    string `json:"reason"`
	Kind       error  `json:"-"`
}

// NewErrorResponse создает новую ошибку с кодом и сообщением.
func NewErrorResponse(statusCode int, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Message:    message}
}

// NewValidationError - некорректные входные данные, пользователь может их исправить.
func NewValidationError(message string) *ErrorResponse {
	return &ErrorResponse{StatusCode: http.StatusBadRequest, Message: message, Kind: ErrValidation}
}

// NewNotFoundError - RFQ или предложение отсутствует.
func NewNotFoundError() *ErrorResponse {
	return &ErrorResponse{StatusCode: http.StatusNotFound, Message: "no longer available", Kind: ErrNotFound}
}

// NewDeadlinePassedError - срок приёма предложений истёк.
func NewDeadlinePassedError() *ErrorResponse {
	return &ErrorResponse{StatusCode: http.StatusConflict, Message: "bidding closed", Kind: ErrDeadlinePassed}
}

// NewInvalidStateError - недопустимый переход, в том числе проигранная гонка.
func NewInvalidStateError() *ErrorResponse {
	return &ErrorResponse{StatusCode: http.StatusConflict, Message: "this RFQ was just updated, please refresh", Kind: ErrInvalidState}
}

// NewPermissionError - у пользователя нет прав. Причина не раскрывается.
func NewPermissionError() *ErrorResponse {
	return &ErrorResponse{StatusCode: http.StatusForbidden, Message: "forbidden", Kind: ErrPermission}
}

// Реализация метода Error() для удовлетворения интерфейса error.
func (e *ErrorResponse) Error() string {
	return e.Message
}

// Unwrap позволяет проверять вид ошибки через errors.Is.
func (e *ErrorResponse) Unwrap() error {
	return e.Kind
}
