package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "acme corp", "acme_corp"},
		{"case preserved", "PT Acme Konstruksi", "PT_Acme_Konstruksi"},
		{"dots and dashes kept", "v1.2-final", "v1.2-final"},
		{"path separators replaced", "a/b\\c", "a_b_c"},
		{"parent traversal neutralized", "../../etc", ".._.._etc"},
		{"accents folded", "José Ñuñez", "Jose_Nunez"},
		{"runs collapsed", "a  -  b", "a_-_b"},
		{"leading trailing trimmed", "  hello  ", "hello"},
		{"only unsafe chars", "///", "_"},
		{"single dot", ".", "_"},
		{"double dot", "..", "_"},
		{"dots only", "...", "_"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SafeName(tt.input))
		})
	}
}

func TestSafeNameIdempotent(t *testing.T) {
	inputs := []string{
		"PT Acme Konstruksi",
		"José Ñuñez",
		"a  b  c",
		"already_safe-1.0",
		"日本語 name",
		"..",
		"///",
		"_",
	}
	for _, in := range inputs {
		once := SafeName(in)
		require.Equal(t, once, SafeName(once), "SafeName must be idempotent for %q", in)
	}
}

func TestSafeNameOnlyAllowedRunes(t *testing.T) {
	out := SafeName("weird!@#$%^&*() name, with; strange:chars?")
	for _, r := range out {
		ok := r == '.' || r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		require.True(t, ok, "unexpected rune %q in %q", r, out)
	}
}
