package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/repositories"
)

// Виды ошибок приложения. AppError всегда оборачивает один из них.
var (
	ErrNotFound     = errors.New("requested resource not found")
	ErrInvalidState = errors.New("invalid state")
	ErrInvalidInput = errors.New("invalid input")
	ErrIntegrity    = errors.New("integrity failure")
)

// AppError is the single error type services return to the HTTP layer.
type AppError struct {
	Kind    error
	Status  int
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func statusFor(kind error) int {
	switch kind {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrInvalidState:
		return http.StatusConflict
	case ErrInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func newAppError(kind, cause error, format string, args ...interface{}) *AppError {
	return &AppError{
		Kind:    kind,
		Status:  statusFor(kind),
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

func notFound(format string, args ...interface{}) *AppError {
	return newAppError(ErrNotFound, nil, format, args...)
}

func invalidState(format string, args ...interface{}) *AppError {
	return newAppError(ErrInvalidState, nil, format, args...)
}

func invalidInput(format string, args ...interface{}) *AppError {
	return newAppError(ErrInvalidInput, nil, format, args...)
}

// toAppError maps engine and repository sentinels onto the four error kinds. Errors it
// does not recognise are returned unchanged.
func toAppError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound),
		errors.Is(err, repositories.ErrParticipantNotFound),
		errors.Is(err, repositories.ErrMatchNotFound),
		errors.Is(err, brackets.ErrMatchNotFound):
		return newAppError(ErrNotFound, err, "%s", err.Error())

	case errors.Is(err, brackets.ErrInvalidWinner),
		errors.Is(err, brackets.ErrResultAlreadySet),
		errors.Is(err, brackets.ErrWinnerNotDeclared),
		errors.Is(err, brackets.ErrMatchNotReady),
		errors.Is(err, repositories.ErrTournamentNameConflict):
		return newAppError(ErrInvalidState, err, "%s", err.Error())

	case errors.Is(err, brackets.ErrUnsupportedFixingType),
		errors.Is(err, brackets.ErrUnsupportedFormat),
		errors.Is(err, brackets.ErrNotEnoughParticipants):
		return newAppError(ErrInvalidInput, err, "%s", err.Error())

	case errors.Is(err, repositories.ErrNotAbleToCreate):
		return newAppError(ErrIntegrity, err, "%s", repositories.ErrNotAbleToCreate.Error())

	case errors.Is(err, repositories.ErrFormatNotFound),
		errors.Is(err, repositories.ErrRoundNotFound),
		errors.Is(err, repositories.ErrStandingNotFound),
		errors.Is(err, brackets.ErrBrokenLink),
		errors.Is(err, brackets.ErrStandingNotFound):
		return newAppError(ErrIntegrity, err, "bracket data is inconsistent: %s", err.Error())
	}
	return err
}
