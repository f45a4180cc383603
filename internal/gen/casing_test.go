package gen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToCapsCase(t *testing.T) {
	cases := map[string]string{
		"index":       "Index",
		"show_person": "ShowPerson",
		"id":          "Id",
		"":            "",
	}
	for in, want := range cases {
		require.Equal(t, want, ToCapsCase(in), "input %q", in)
	}
}

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"Index":       "index",
		"ShowPerson":  "show_person",
		"Id":          "id",
		"HTTPServer":  "h_t_t_p_server",
	}
	for in, want := range cases {
		require.Equal(t, want, ToSnakeCase(in), "input %q", in)
	}
}

func TestCasingRoundTripsSimpleIdentifiers(t *testing.T) {
	for _, id := range []string{"index", "show_person", "create"} {
		require.Equal(t, id, ToSnakeCase(ToCapsCase(id)))
	}
}
