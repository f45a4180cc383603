package diagnostics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/couchand/wayfinder-go/internal/routeparse"
)

func TestShowRendersSourceContext(t *testing.T) {
	source := "/\n   GET Index\n"
	_, err := routeparse.ParseString(source)
	require.Error(t, err)

	var buf strings.Builder
	require.NoError(t, Show(&buf, source, err))

	out := buf.String()
	require.Contains(t, out, "error:")
	require.Contains(t, out, "GET Index")
	require.Contains(t, out, "^")
}

func TestShowFallsBackForNonParseErrors(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, Show(&buf, "", errPlain("boom")))
	require.Equal(t, "error: boom\n", buf.String())
}

type errPlain string

func (e errPlain) Error() string { return string(e) }
