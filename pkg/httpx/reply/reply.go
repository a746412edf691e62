package reply

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"

	"skin_market/pkg/contextx"
	"skin_market/pkg/errcodes"
	"skin_market/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// RetryAfterSeconds is advertised on 503 responses while no analysis is available.
const RetryAfterSeconds = 120

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	SupportID string `json:"supportId"`
}

func (e *errorResponse) WithDefaultCode(code failure.ErrorCode) {
	if e.Code == "" {
		e.Code = code.String()
	}
}

// codedError is implemented by domain errors that carry an error code and a
// message meant for the client.
type codedError interface {
	error
	ErrCode() failure.ErrorCode
	ErrMessage() string
}

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

func JSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger(ctx).Error("json.Encode", logx.Error(err))
	}
}

// RawJSON writes an already encoded JSON document as is.
func RawJSON(ctx context.Context, w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if _, err := w.Write([]byte(body)); err != nil {
		logger(ctx).Error("w.Write", logx.Error(err))
	}
}

func Error(ctx context.Context, w http.ResponseWriter, err error) {
	logger(ctx).Error("error", logx.Error(err))

	var coded codedError
	if errors.As(err, &coded) {
		codedErrorJSON(ctx, w, coded)

		return
	}

	response := errorResponse{
		Code:      failure.Code(err).String(),
		Message:   failure.Description(err),
		SupportID: supportID(ctx),
	}

	switch {
	case failure.IsInvalidArgumentError(err):
		response.WithDefaultCode(errcodes.ValidationError)
		JSON(ctx, w, http.StatusBadRequest, response)
	case failure.IsNotFoundError(err):
		response.WithDefaultCode(errcodes.NotFound)
		JSON(ctx, w, http.StatusNotFound, response)
	case failure.IsConflictError(err):
		JSON(ctx, w, http.StatusConflict, response)
	case failure.IsUnprocessableEntityError(err):
		JSON(ctx, w, http.StatusUnprocessableEntity, response)
	default:
		response.WithDefaultCode(errcodes.InternalServerError)
		JSON(ctx, w, http.StatusInternalServerError, response)
	}
}

func codedErrorJSON(ctx context.Context, w http.ResponseWriter, err codedError) {
	response := errorResponse{
		Code:      err.ErrCode().String(),
		Message:   err.ErrMessage(),
		SupportID: supportID(ctx),
	}

	switch err.ErrCode() {
	case errcodes.AnalysisNotFound, errcodes.NotFound:
		JSON(ctx, w, http.StatusNotFound, response)
	case errcodes.AnalysisNotReady, errcodes.AnalysisInProgress, errcodes.AnalysisFailed:
		w.Header().Set("Retry-After", strconv.Itoa(RetryAfterSeconds))
		JSON(ctx, w, http.StatusServiceUnavailable, response)
	case errcodes.TooManyRequests:
		JSON(ctx, w, http.StatusTooManyRequests, response)
	case errcodes.ValidationError, errcodes.InvalidCalculatorInput, errcodes.InvalidRunsLimit:
		JSON(ctx, w, http.StatusBadRequest, response)
	case errcodes.TimeoutExceeded:
		JSON(ctx, w, http.StatusGatewayTimeout, response)
	default:
		JSON(ctx, w, http.StatusInternalServerError, response)
	}
}

func supportID(ctx context.Context) string {
	traceID, err := contextx.TraceIDFromContext(ctx)
	if err != nil {
		return "unsupported"
	}

	return traceID.String()
}
