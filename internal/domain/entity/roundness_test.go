package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	for _, m := range Methods() {
		got, err := ParseMethod(string(m))
		require.NoError(t, err)
		require.Equal(t, m, got)
	}

	got, err := ParseMethod("  MIN_ZONE ")
	require.NoError(t, err)
	require.Equal(t, MethodMinZone, got)

	_, err = ParseMethod("hough")
	require.ErrorIs(t, err, ErrUnknownMethod)
}

func TestMethodTitle(t *testing.T) {
	require.Equal(t, "Minimum Zone Method", MethodMinZone.Title())
	require.Equal(t, "Least Squares Method", MethodLeastSquares.Title())
	require.Equal(t, "Minimum Circumscribed Circle Method", MethodMinCircumscribed.Title())
	require.Equal(t, "Maximum Inscribed Circle Method", MethodMaxInscribed.Title())
}
