package domain

import (
	"errors"
	"fmt"

	"git.appkode.ru/pub/go/failure"

	"skin_market/pkg/errcodes"
)

// Errors of the refresh and data source paths. Compare with errors.Is.
var (
	ErrRefreshInProgress    = NewError(errcodes.AnalysisInProgress, "analysis is already in progress, retry in a couple of minutes")
	ErrAnalysisNotReady     = NewError(errcodes.AnalysisNotReady, "data has not been analyzed yet, retry in a couple of minutes")
	ErrAnalysisNotFound     = NewError(errcodes.AnalysisNotFound, "no analysis has completed yet")
	ErrStorageNotConfigured = NewError(errcodes.StorageNotConfigured, "result storage is not configured")
	ErrEmptyAnalysis        = NewError(errcodes.AnalysisFailed, "analysis returned an empty result")
)

// AppError is a domain error carrying a code the transport maps to a status.
type AppError struct {
	Code    failure.ErrorCode
	Message string
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func (e *AppError) ErrCode() failure.ErrorCode {
	return e.Code
}

func (e *AppError) ErrMessage() string {
	return e.Message
}

func NewError(code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func WrapError(err error, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   err,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func GetCode(err error) (failure.ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}
