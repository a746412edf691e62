package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	TooManyRequests     failure.ErrorCode = "TooManyRequests"

	// Refresh and data source.
	AnalysisNotFound     failure.ErrorCode = "AnalysisNotFound"     // bucket holds no object yet
	AnalysisNotReady     failure.ErrorCode = "AnalysisNotReady"     // cold-start refresh produced nothing
	AnalysisInProgress   failure.ErrorCode = "AnalysisInProgress"   // another refresh holds the flag
	AnalysisFailed       failure.ErrorCode = "AnalysisFailed"       // engine error or empty output
	StorageNotConfigured failure.ErrorCode = "StorageNotConfigured" // bucket source without a store
	FilterFailed         failure.ErrorCode = "FilterFailed"

	InvalidCalculatorInput failure.ErrorCode = "InvalidCalculatorInput"
	InvalidRunsLimit       failure.ErrorCode = "InvalidRunsLimit"
)
