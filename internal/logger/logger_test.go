package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jane@example.com", "j***@example.com"},
		{"a@b.io", "a***@b.io"},
		{"not-an-email", "not-an-email"},
		{"@nouser.com", "@nouser.com"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactEmail(tt.in), tt.in)
	}
}

func TestRedactEmbedded(t *testing.T) {
	got := Redact("send to jane.doe@example.com and bob@shop.co")
	assert.Equal(t, "send to j***@example.com and b***@shop.co", got)
}

func TestSetupLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	Setup("test", "debug", false)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	Setup("test", "bogus", false)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
