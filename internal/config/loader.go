package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load loads and validates configuration from:
// 1. Default values
// 2. The config file at path (optional; yaml)
// 3. BOT_* environment variables
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, cfg)

	// Allow missing config file; defaults plus env suffice. With an
	// explicit SetConfigFile path an absent file surfaces as fs.ErrNotExist
	// rather than viper.ConfigFileNotFoundError.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every key with viper so that environment-only
// overrides are picked up even without a config file.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.json", cfg.Log.JSON)
	v.SetDefault("log.file", cfg.Log.File)

	v.SetDefault("whatsapp.admin_jid", cfg.WhatsApp.AdminJID)
	v.SetDefault("whatsapp.allow_mode", cfg.WhatsApp.AllowMode)
	v.SetDefault("whatsapp.allowed_jids", cfg.WhatsApp.AllowedJIDs)
	v.SetDefault("whatsapp.store_path", cfg.WhatsApp.StorePath)

	v.SetDefault("gemini.api_key", cfg.Gemini.APIKey)
	v.SetDefault("gemini.model_name", cfg.Gemini.ModelName)
	v.SetDefault("gemini.temperature", cfg.Gemini.Temperature)
	v.SetDefault("gemini.max_retries", cfg.Gemini.MaxRetries)
	v.SetDefault("gemini.retry_delay_seconds", cfg.Gemini.RetryDelaySeconds)

	v.SetDefault("database.path", cfg.Database.Path)

	v.SetDefault("data.knowledge_path", cfg.Data.KnowledgePath)
	v.SetDefault("data.faq_path", cfg.Data.FAQPath)

	v.SetDefault("ratelimit.window", cfg.RateLimit.Window)
	v.SetDefault("ratelimit.max", cfg.RateLimit.Max)

	v.SetDefault("export.dir", cfg.Export.Dir)
	v.SetDefault("export.cleanup_delay", cfg.Export.CleanupDelay)

	v.SetDefault("messages.welcome", cfg.Messages.Welcome)
	v.SetDefault("messages.faq_empty", cfg.Messages.FAQEmpty)
	v.SetDefault("messages.throttle", cfg.Messages.Throttle)
	v.SetDefault("messages.handoff_ack", cfg.Messages.HandoffAck)
	v.SetDefault("messages.handoff_notice", cfg.Messages.HandoffNotice)
	v.SetDefault("messages.admin_joined", cfg.Messages.AdminJoined)
	v.SetDefault("messages.ai_returned", cfg.Messages.AIReturned)
	v.SetDefault("messages.takeover_reply", cfg.Messages.TakeoverReply)
	v.SetDefault("messages.resolve_reply", cfg.Messages.ResolveReply)
	v.SetDefault("messages.forward", cfg.Messages.Forward)
	v.SetDefault("messages.ai_error", cfg.Messages.AIError)
	v.SetDefault("messages.unknown_cmd", cfg.Messages.UnknownCmd)
	v.SetDefault("messages.help", cfg.Messages.Help)
	v.SetDefault("messages.session_missing", cfg.Messages.SessionMissing)
	v.SetDefault("messages.list_empty", cfg.Messages.ListEmpty)
	v.SetDefault("messages.list_header", cfg.Messages.ListHeader)
	v.SetDefault("messages.order_usage", cfg.Messages.OrderUsage)
	v.SetDefault("messages.order_add_usage", cfg.Messages.OrderAddUsage)
	v.SetDefault("messages.order_saved", cfg.Messages.OrderSaved)
	v.SetDefault("messages.order_updated", cfg.Messages.OrderUpdated)
	v.SetDefault("messages.order_deleted", cfg.Messages.OrderDeleted)
	v.SetDefault("messages.orders_empty", cfg.Messages.OrdersEmpty)
	v.SetDefault("messages.order_error", cfg.Messages.OrderError)
	v.SetDefault("messages.export_failed", cfg.Messages.ExportFailed)
	v.SetDefault("messages.export_fallback", cfg.Messages.ExportFallback)
}
