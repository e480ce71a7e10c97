package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server   ServerConfig
	Project  ProjectConfig
	Pipeline PipelineConfig
	Script   ScriptConfig
	Voice    VoiceConfig
	Resynth  ResynthConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Notify   NotifyConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type ProjectConfig struct {
	Dir    string // run artifacts (script.json, voice files, cues)
	SFXDir string
	WebDir string // editor static files, served when present
}

type PipelineConfig struct {
	Speed          float64 // tempo multiplier applied to narration
	DurationBudget float64 // advisory ceiling in post-tempo seconds
	BoomSFX        string  // sound effect placed at each cue end
	BoomVolume     float64
}

type ScriptConfig struct {
	AnthropicKey     string
	OpenAIKey        string
	OllamaURL        string
	DefaultProvider  string // "claude", "openai" or "ollama"
	FallbackProvider string
	ClaudeModel      string
	AutoCueModel     string // cheaper model for the legacy auto-cue call
	OpenAIModel      string
	OllamaModel      string
	MaxRetries       int
}

type VoiceConfig struct {
	Backend           string // "elevenlabs", "openai" or "piper"
	ElevenLabsKey     string
	ElevenLabsVoice   string
	ElevenLabsModel   string
	OpenAIKey         string
	OpenAIModel       string
	OpenAIVoice       string
	PiperBin          string
	PiperModel        string
	RequestsPerMinute int
}

type ResynthConfig struct {
	Backend   string // "praat" or "remote"
	PraatBin  string
	RemoteURL string
}

type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string // empty disables editor auth
}

type NotifyConfig struct {
	WebhookURL    string
	WebhookSecret string
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8765)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	speed, err := getEnvFloat("PIPELINE_SPEED", 1.2)
	if err != nil {
		return nil, fmt.Errorf("invalid PIPELINE_SPEED: %w", err)
	}

	budget, err := getEnvFloat("DURATION_BUDGET_SECONDS", 40)
	if err != nil {
		return nil, fmt.Errorf("invalid DURATION_BUDGET_SECONDS: %w", err)
	}

	boomVolume, err := getEnvFloat("SFX_BOOM_VOLUME", 0.7)
	if err != nil {
		return nil, fmt.Errorf("invalid SFX_BOOM_VOLUME: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 2)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxRetries, err := getEnvInt("SCRIPT_MAX_RETRIES", 3)
	if err != nil {
		return nil, fmt.Errorf("invalid SCRIPT_MAX_RETRIES: %w", err)
	}

	voiceRPM, err := getEnvInt("VOICE_REQUESTS_PER_MINUTE", 30)
	if err != nil {
		return nil, fmt.Errorf("invalid VOICE_REQUESTS_PER_MINUTE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Project: ProjectConfig{
			Dir:    getEnv("PROJECT_DIR", "output"),
			SFXDir: getEnv("SFX_DIR", "sfx"),
			WebDir: getEnv("WEB_DIR", "web"),
		},
		Pipeline: PipelineConfig{
			Speed:          speed,
			DurationBudget: budget,
			BoomSFX:        getEnv("SFX_BOOM_NAME", "vine-boom"),
			BoomVolume:     boomVolume,
		},
		Script: ScriptConfig{
			AnthropicKey:     getEnv("ANTHROPIC_API_KEY", ""),
			OpenAIKey:        getEnv("OPENAI_API_KEY", ""),
			OllamaURL:        getEnv("OLLAMA_URL", "http://localhost:11434"),
			DefaultProvider:  getEnv("SCRIPT_DEFAULT_PROVIDER", "claude"),
			FallbackProvider: getEnv("SCRIPT_FALLBACK_PROVIDER", ""),
			ClaudeModel:      getEnv("SCRIPT_CLAUDE_MODEL", "claude-sonnet-4-5"),
			AutoCueModel:     getEnv("SCRIPT_AUTOCUE_MODEL", "claude-haiku-4-5"),
			OpenAIModel:      getEnv("SCRIPT_OPENAI_MODEL", "gpt-4o"),
			OllamaModel:      getEnv("SCRIPT_OLLAMA_MODEL", "llama3.1"),
			MaxRetries:       maxRetries,
		},
		Voice: VoiceConfig{
			Backend:           getEnv("VOICE_BACKEND", "elevenlabs"),
			ElevenLabsKey:     getEnv("ELEVENLABS_API_KEY", ""),
			ElevenLabsVoice:   getEnv("ELEVENLABS_VOICE_ID", ""),
			ElevenLabsModel:   getEnv("ELEVENLABS_MODEL", "eleven_multilingual_v2"),
			OpenAIKey:         getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:       getEnv("VOICE_OPENAI_MODEL", "tts-1"),
			OpenAIVoice:       getEnv("VOICE_OPENAI_VOICE", "onyx"),
			PiperBin:          getEnv("VOICE_PIPER_BIN", "piper"),
			PiperModel:        getEnv("VOICE_PIPER_MODEL", ""),
			RequestsPerMinute: voiceRPM,
		},
		Resynth: ResynthConfig{
			Backend:   getEnv("RESYNTH_BACKEND", "praat"),
			PraatBin:  getEnv("RESYNTH_PRAAT_BIN", "praat"),
			RemoteURL: getEnv("RESYNTH_REMOTE_URL", ""),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			MaxConns: maxConns,
			MinConns: minConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("EDITOR_AUTH_SECRET", ""),
		},
		Notify: NotifyConfig{
			WebhookURL:    getEnv("NOTIFY_WEBHOOK_URL", ""),
			WebhookSecret: getEnv("NOTIFY_WEBHOOK_SECRET", ""),
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	if c.Pipeline.Speed <= 0 {
		return fmt.Errorf("pipeline speed must be positive, got %v", c.Pipeline.Speed)
	}
	switch c.Voice.Backend {
	case "elevenlabs", "openai", "piper":
	default:
		return fmt.Errorf("unknown voice backend %q", c.Voice.Backend)
	}
	switch c.Resynth.Backend {
	case "praat", "remote":
	default:
		return fmt.Errorf("unknown resynth backend %q", c.Resynth.Backend)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}
