package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("desconocido"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel(" ERROR "))
}

func TestNewYComponent(t *testing.T) {
	l := New(Config{Env: "production", Level: "error", Service: "facturacion-api"})
	assert.Equal(t, zerolog.ErrorLevel, l.Zerolog().GetLevel())

	c := l.Component("billing")
	assert.NotNil(t, c)
	assert.Equal(t, zerolog.ErrorLevel, c.Zerolog().GetLevel())
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info().Str("k", "v").Msg("descartado")
	assert.Equal(t, zerolog.Disabled, l.Zerolog().GetLevel())
}
