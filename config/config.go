package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
)

// Config holds all configurable server parameters.
type Config struct {
	WSPort         int    `json:"ws_port"`
	MaxNameLength  int    `json:"max_name_length"`
	MaxChatLength  int    `json:"max_chat_length"`
	CountdownMS    int    `json:"countdown_ms"`
	ResolveDelayMS int    `json:"resolve_delay_ms"`
	CardsFile      string `json:"cards_file"`

	// PublicBaseURL is the externally reachable URL used to build room join
	// links (and their QR codes).
	PublicBaseURL string `json:"public_base_url"`

	// AuthBaseURL enables JWT connection auth when set; tokens are verified
	// against <AuthBaseURL>/.well-known/jwks.json.
	AuthBaseURL string `json:"auth_base_url"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		WSPort:         8080,
		MaxNameLength:  24,
		MaxChatLength:  280,
		CountdownMS:    3000,
		ResolveDelayMS: 2000,
		CardsFile:      "cards.json",
		PublicBaseURL:  "http://localhost:8080",
	}
}

// Load reads configuration from an optional config.json file,
// then applies environment variable overrides. Fields not set
// in either source retain their default values.
func Load() *Config {
	cfg := Defaults()

	// Try to load from config.json
	if f, err := os.Open("config.json"); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			log.Printf("Warning: failed to parse config.json: %v", err)
		}
	}

	// Environment variable overrides
	overrideInt(&cfg.WSPort, "WS_PORT")
	overrideInt(&cfg.MaxNameLength, "MAX_NAME_LENGTH")
	overrideInt(&cfg.MaxChatLength, "MAX_CHAT_LENGTH")
	overrideInt(&cfg.CountdownMS, "COUNTDOWN_MS")
	overrideInt(&cfg.ResolveDelayMS, "RESOLVE_DELAY_MS")
	overrideString(&cfg.CardsFile, "CARDS_FILE")
	overrideString(&cfg.PublicBaseURL, "PUBLIC_BASE_URL")
	overrideString(&cfg.AuthBaseURL, "AUTH_BASE_URL")

	return cfg
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			log.Printf("Warning: invalid value for %s: %q", envKey, val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
