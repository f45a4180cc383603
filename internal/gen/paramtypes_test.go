package gen

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestResolveParamTypeBuiltins(t *testing.T) {
	require.Equal(t, "int", resolveParamType("int").GoType)
	require.True(t, resolveParamType("int").NeedsStrconv)

	require.Equal(t, "string", resolveParamType("string").GoType)
	require.True(t, resolveParamType("string").NeverFails)

	require.Equal(t, "uuid.UUID", resolveParamType("Uuid").GoType)
	require.True(t, resolveParamType("Uuid").NeedsUUID)
}

// TestResolveParamTypeUUIDParseExprIsReal exercises the Uuid entry's
// ParseExpr against the actual github.com/google/uuid package, not just
// its textual form, so a typo in the table (an expression that looks
// right but calls a function that doesn't exist or returns the wrong
// shape) would fail this test rather than only surfacing in generated
// output nobody compiles.
func TestResolveParamTypeUUIDParseExprIsReal(t *testing.T) {
	k := resolveParamType("Uuid")
	require.Equal(t, "uuid.Parse(text)", k.ParseExpr)

	text := uuid.New().String()
	parsed, err := uuid.Parse(text)
	require.NoError(t, err)
	require.Equal(t, text, parsed.String())

	_, err = uuid.Parse("not-a-uuid")
	require.Error(t, err)
}

func TestResolveParamTypeFallsBackToParseFunction(t *testing.T) {
	k := resolveParamType("slug")
	require.Equal(t, "slug", k.GoType)
	require.Equal(t, "ParseSlug(text)", k.ParseExpr)
	require.False(t, k.NeverFails)
}
