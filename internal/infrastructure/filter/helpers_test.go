package filter_test

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

func names(t *testing.T, data string) []string {
	t.Helper()

	var items []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.UnmarshalFromString(data, &items))

	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Name)
	}

	return out
}
