package config

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PDFSTRUCT_MAX_PAGES", "")
	t.Setenv("PDFSTRUCT_WORKERS", "")
	t.Setenv("PDFSTRUCT_LOG_LEVEL", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_MODEL", "")

	c := Load()
	assert.Equal(t, DefaultMaxPages, c.MaxPages)
	assert.Equal(t, runtime.NumCPU(), c.Workers)
	assert.Equal(t, "info", c.LogLevel)
	assert.Empty(t, c.GeminiAPIKey)
	assert.Equal(t, DefaultGeminiModel, c.GeminiModel)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PDFSTRUCT_MAX_PAGES", "12")
	t.Setenv("PDFSTRUCT_WORKERS", "3")
	t.Setenv("PDFSTRUCT_LOG_LEVEL", "debug")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")

	c := Load()
	assert.Equal(t, 12, c.MaxPages)
	assert.Equal(t, 3, c.Workers)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "google-key", c.GeminiAPIKey)
	assert.Equal(t, "gemini-2.5-pro", c.GeminiModel)
}

func TestLoad_InvalidIntsFallBack(t *testing.T) {
	t.Setenv("PDFSTRUCT_MAX_PAGES", "lots")
	t.Setenv("PDFSTRUCT_WORKERS", "-2")

	c := Load()
	assert.Equal(t, DefaultMaxPages, c.MaxPages)
	assert.Equal(t, runtime.NumCPU(), c.Workers)
}
