package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBookingCode(t *testing.T) {
	code, err := NewBookingCode()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(code, "BK"))
	// BK + 13-digit millisecond timestamp + 5 random characters.
	require.Len(t, code, 20)
	for _, r := range code[2:] {
		require.Contains(t, bookingCodeAlphabet, string(r))
	}
}

func TestNewBookingCodeSuffixVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := NewBookingCode()
		require.NoError(t, err)
		seen[code] = true
	}
	// Codes generated in the same millisecond still differ by suffix.
	require.Greater(t, len(seen), 1)
}
