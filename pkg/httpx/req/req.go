package req

import (
	"fmt"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
)

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary         //nolint:gochecknoglobals // skip
	validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // skip
)

// Read decodes the JSON body into dest and validates it by its `validate` tags.
func Read(r *http.Request, dest any, code failure.ErrorCode) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return failure.NewInvalidArgumentError(
			fmt.Errorf("json.Decode: %w", err).Error(),
			failure.WithCode(code),
			failure.WithDescription("Invalid JSON"),
		)
	}

	if err := validate.StructCtx(r.Context(), dest); err != nil {
		return failure.NewInvalidArgumentError(
			"validation error",
			failure.WithCode(code),
			failure.WithDescription(err.Error()),
		)
	}

	return nil
}

// QueryOrDefault returns the raw query value, or def when it is absent or empty.
// The value is not parsed.
func QueryOrDefault(r *http.Request, key, def string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}

	return def
}

// QueryInt parses an integer query parameter within [minValue, maxValue].
func QueryInt(r *http.Request, key string, def, minValue, maxValue int, code failure.ErrorCode) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < minValue || v > maxValue {
		return 0, failure.NewInvalidArgumentError(
			fmt.Sprintf("invalid %s: %q", key, raw),
			failure.WithCode(code),
			failure.WithDescription(fmt.Sprintf("%s must be an integer in [%d, %d]", key, minValue, maxValue)),
		)
	}

	return v, nil
}
