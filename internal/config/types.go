// Package config manages application configuration from default values,
// an optional config.yaml file, and BOT_* environment variables.
package config

import "time"

// Config defines the application configuration parameters for all components:
// logging, the WhatsApp transport, the Gemini client, storage, reference data,
// rate limiting, export handling, and user-facing message texts.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	WhatsApp  WhatsAppConfig  `mapstructure:"whatsapp"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Data      DataConfig      `mapstructure:"data"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Export    ExportConfig    `mapstructure:"export"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LogConfig controls log level, output format, and the optional JSONL
// file sink (empty File disables it).
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
	File  string `mapstructure:"file"`
}

// WhatsAppConfig holds transport settings: the admin identity, the
// allow-mode gate, and the path of the whatsmeow device store.
type WhatsAppConfig struct {
	AdminJID    string   `mapstructure:"admin_jid"    validate:"required"`
	AllowMode   string   `mapstructure:"allow_mode"   validate:"oneof=all allowlist"`
	AllowedJIDs []string `mapstructure:"allowed_jids"`
	StorePath   string   `mapstructure:"store_path"   validate:"required"`
}

// GeminiConfig holds settings for the generative backend.
type GeminiConfig struct {
	APIKey            string  `mapstructure:"api_key"             validate:"required"`
	ModelName         string  `mapstructure:"model_name"          validate:"required"`
	Temperature       float32 `mapstructure:"temperature"         validate:"min=0,max=2"`
	MaxRetries        int     `mapstructure:"max_retries"         validate:"min=0,max=10"`
	RetryDelaySeconds int     `mapstructure:"retry_delay_seconds" validate:"min=0,max=300"`
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// DataConfig points at the static reference tables loaded once at startup.
type DataConfig struct {
	KnowledgePath string `mapstructure:"knowledge_path" validate:"required"`
	FAQPath       string `mapstructure:"faq_path"       validate:"required"`
}

// RateLimitConfig controls the per-sender message throttle.
type RateLimitConfig struct {
	Window time.Duration `mapstructure:"window" validate:"min=1s,max=10m"`
	Max    int           `mapstructure:"max"    validate:"min=1,max=100"`
}

// ExportConfig controls where export artifacts are written and how long
// they are retained before best-effort cleanup.
type ExportConfig struct {
	Dir          string        `mapstructure:"dir"           validate:"required"`
	CleanupDelay time.Duration `mapstructure:"cleanup_delay" validate:"min=1s,max=1h"`
}

// MessagesConfig holds all user-facing message texts. Entries containing
// %s are format strings filled in by the router.
type MessagesConfig struct {
	Welcome        string `mapstructure:"welcome"`
	FAQEmpty       string `mapstructure:"faq_empty"`
	Throttle       string `mapstructure:"throttle"`
	HandoffAck     string `mapstructure:"handoff_ack"`
	HandoffNotice  string `mapstructure:"handoff_notice"`
	AdminJoined    string `mapstructure:"admin_joined"`
	AIReturned     string `mapstructure:"ai_returned"`
	TakeoverReply  string `mapstructure:"takeover_reply"`
	ResolveReply   string `mapstructure:"resolve_reply"`
	Forward        string `mapstructure:"forward"`
	AIError        string `mapstructure:"ai_error"`
	UnknownCmd     string `mapstructure:"unknown_cmd"`
	Help           string `mapstructure:"help"`
	SessionMissing string `mapstructure:"session_missing"`
	ListEmpty      string `mapstructure:"list_empty"`
	ListHeader     string `mapstructure:"list_header"`
	OrderUsage     string `mapstructure:"order_usage"`
	OrderAddUsage  string `mapstructure:"order_add_usage"`
	OrderSaved     string `mapstructure:"order_saved"`
	OrderUpdated   string `mapstructure:"order_updated"`
	OrderDeleted   string `mapstructure:"order_deleted"`
	OrdersEmpty    string `mapstructure:"orders_empty"`
	OrderError     string `mapstructure:"order_error"`
	ExportFailed   string `mapstructure:"export_failed"`
	ExportFallback string `mapstructure:"export_fallback"`
}
