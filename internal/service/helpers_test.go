package service

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestStringPreview(t *testing.T) {
	require.Equal(t, "short", stringPreview("  short  ", 20))
	require.Equal(t, "long mes...", stringPreview("long message that overflows", 11))
	require.Equal(t, "ab", stringPreview("abcdef", 2))
}

func TestStringPreviewRespectsRuneBoundaries(t *testing.T) {
	// A cut point inside the two-byte "ü" must back off to the rune start.
	preview := stringPreview("grüne Tonne überfüllt", 6)
	require.Equal(t, "gr...", preview)
	require.True(t, utf8.ValidString(preview))

	preview = stringPreview("grüne Tonne überfüllt", 8)
	require.Equal(t, "grün...", preview)
	require.True(t, utf8.ValidString(preview))
}
