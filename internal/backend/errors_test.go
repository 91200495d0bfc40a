package backend

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestExtractMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail", `{"detail": "Not found."}`, "Not found."},
		{"field errors", `{"name": ["required"], "file": ["missing", "empty"]}`, "file: missing empty; name: required"},
		{"plain text", "Bad Gateway", "Bad Gateway"},
		{"empty", "  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractMessage([]byte(tt.body)))
		})
	}
}

func TestExtractMessage_TruncatesOnRuneBoundary(t *testing.T) {
	body := strings.Repeat("a", maxMessageBytes-1) + strings.Repeat("é", 10)

	msg := extractMessage([]byte(body))

	assert.True(t, utf8.ValidString(msg))
	assert.Equal(t, strings.Repeat("a", maxMessageBytes-1), msg)

	ascii := strings.Repeat("x", maxMessageBytes+50)
	assert.Len(t, extractMessage([]byte(ascii)), maxMessageBytes)
}
