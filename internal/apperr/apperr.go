package apperr

import (
	"errors"
	"net/http"
)

// Code identifies a recoverable failure. Codes are stable and part of the
// API contract; controllers translate them to HTTP statuses.
type Code string

const (
	CodeUnauthorized       Code = "auth.unauthorized"
	CodeForbidden          Code = "auth.forbidden"
	CodeInvalidCredentials Code = "auth.invalid_credentials"

	CodeUsernameTaken Code = "user.username_taken"

	CodeQuizInvalid  Code = "quiz.invalid"
	CodeQuizNotFound Code = "quiz.not_found"

	CodeAttemptNotFound    Code = "attempt.not_found"
	CodeAttemptCompleted   Code = "attempt.completed"
	CodeAttemptTimeExpired Code = "attempt.time_expired"

	CodeQuestionNotFound     Code = "question.not_found"
	CodeQuestionNotSupported Code = "question.type_not_supported"

	CodeAnswerInvalid       Code = "answer.invalid"
	CodeAnswerInvalidChoice Code = "answer.invalid_choice"
)

// Error is a validation or ownership failure recovered at the service
// boundary. Storage failures are not wrapped in Error; they propagate as
// plain errors and surface as a generic 500.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// From extracts the typed error if err carries one.
func From(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	appErr, ok := From(err)
	return ok && appErr.Code == code
}

// HTTPStatus maps an error to the status a controller should respond with.
func HTTPStatus(err error) int {
	appErr, ok := From(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeUnauthorized, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeQuizNotFound, CodeAttemptNotFound, CodeQuestionNotFound:
		return http.StatusNotFound
	case CodeUsernameTaken, CodeAttemptCompleted:
		return http.StatusConflict
	case CodeAttemptTimeExpired:
		return http.StatusGone
	default:
		return http.StatusBadRequest
	}
}
