// Package config reads the assistant settings from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Host  string
	Port  int
	Debug bool

	LogLevel string

	STTLanguage string
	TTSLanguage string

	UseSQLite    bool
	SQLitePath   string
	DataDir      string
	TmpDir       string
	FrontendDir  string
	WhisperModel string
	ChimePath    string

	WeatherProvider string
	WeatherTimeout  time.Duration

	OpenAIKey     string
	SpeechTimeout time.Duration
	SocksProxy    string
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads envFile if it exists, then the process environment. Variables
// already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	c := Config{
		Host:            envString("HOST", "127.0.0.1"),
		Debug:           envBool("DEBUG", false),
		LogLevel:        strings.ToLower(envString("LOG_LEVEL", "info")),
		STTLanguage:     envString("STT_LANGUAGE", "en-US"),
		TTSLanguage:     envString("TTS_LANGUAGE", "en"),
		UseSQLite:       envBool("USE_SQLITE", true),
		DataDir:         envString("DATA_DIR", "./data"),
		TmpDir:          envString("TMP_DIR", "./tmp"),
		FrontendDir:     os.Getenv("FRONTEND_DIR"),
		WhisperModel:    envString("WHISPER_MODEL", "models/ggml-base.en.bin"),
		ChimePath:       envString("CHIME_PATH", "beep.mp3"),
		WeatherProvider: strings.ToLower(envString("WEATHER_PROVIDER", "open-meteo")),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		SocksProxy:      os.Getenv("SOCKS_PROXY"),
	}
	c.SQLitePath = envString("SQLITE_DB_PATH", filepath.Join(c.DataDir, "reminders.db"))
	if c.Debug && os.Getenv("LOG_LEVEL") == "" {
		c.LogLevel = "debug"
	}

	var err error
	if c.Port, err = envInt("PORT", 5000); err != nil {
		return Config{}, err
	}
	if c.WeatherTimeout, err = envDuration("WEATHER_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if c.SpeechTimeout, err = envDuration("SPEECH_TIMEOUT", 60*time.Second); err != nil {
		return Config{}, err
	}

	if c.WeatherProvider != "open-meteo" {
		return Config{}, fmt.Errorf("unsupported WEATHER_PROVIDER %q", c.WeatherProvider)
	}
	return c, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
