// Package config loads process defaults from the environment. Command-line
// flags take precedence over everything read here.
package config

import (
	"os"
	"runtime"
	"strconv"
)

const (
	DefaultMaxPages    = 50
	DefaultGeminiModel = "gemini-2.5-flash"
)

type Config struct {
	MaxPages int
	Workers  int
	LogLevel string

	GeminiAPIKey string
	GeminiModel  string
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func Load() Config {
	return Config{
		MaxPages: getEnvInt("PDFSTRUCT_MAX_PAGES", DefaultMaxPages),
		Workers:  getEnvInt("PDFSTRUCT_WORKERS", runtime.NumCPU()),
		LogLevel: getEnv("PDFSTRUCT_LOG_LEVEL", "info"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		GeminiModel:  getEnv("GEMINI_MODEL", DefaultGeminiModel),
	}
}
