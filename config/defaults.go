package config

const (
	defaultUserID          = "terminal_user"
	defaultTimeoutSeconds  = 30
	defaultSidecarFile     = ".webhook-url"
	defaultBotName         = "ORACLE"
	defaultCommandPrefix   = "/"
	defaultAlphabet        = "ABCDEFGHIJKLMNOPQRSTUVWXYZ123456789@#$%^&*()*&^%+-/~{[|`]}"
	defaultGlyphSize       = 1
	defaultFrameIntervalMs = 50
	defaultFade            = 0.05
	defaultGlowChance      = 0.02
	defaultResetChance     = 0.025
	defaultHeightRatio     = 0.35
)

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Webhook: WebhookConfig{
			UserID:         defaultUserID,
			TimeoutSeconds: defaultTimeoutSeconds,
			SidecarFile:    defaultSidecarFile,
		},
		Chat: ChatConfig{
			BotName:       defaultBotName,
			CommandPrefix: defaultCommandPrefix,
		},
		Matrix: MatrixConfig{
			Alphabet:        defaultAlphabet,
			GlyphSize:       defaultGlyphSize,
			FrameIntervalMs: defaultFrameIntervalMs,
			Fade:            defaultFade,
			GlowChance:      defaultGlowChance,
			ResetChance:     defaultResetChance,
			HeightRatio:     defaultHeightRatio,
		},
		Logging: defaultLoggingConfig(),
	}
}

func defaultLoggingConfig() LoggingConfig {
	enabled := true
	return LoggingConfig{
		Enabled: &enabled,
		Level:   "info",
		File:    "logs/matrixchat.log",
	}
}

func (c *Config) applyDefaults() {
	if c.Webhook.UserID == "" {
		c.Webhook.UserID = defaultUserID
	}
	if c.Webhook.TimeoutSeconds <= 0 {
		c.Webhook.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Webhook.SidecarFile == "" {
		c.Webhook.SidecarFile = defaultSidecarFile
	}

	if c.Chat.BotName == "" {
		c.Chat.BotName = defaultBotName
	}
	if c.Chat.CommandPrefix == "" {
		c.Chat.CommandPrefix = defaultCommandPrefix
	}

	if c.Matrix.Alphabet == "" {
		c.Matrix.Alphabet = defaultAlphabet
	}
	if c.Matrix.GlyphSize <= 0 {
		c.Matrix.GlyphSize = defaultGlyphSize
	}
	if c.Matrix.FrameIntervalMs <= 0 {
		c.Matrix.FrameIntervalMs = defaultFrameIntervalMs
	}
	if c.Matrix.Fade <= 0 || c.Matrix.Fade > 1 {
		c.Matrix.Fade = defaultFade
	}
	if c.Matrix.GlowChance <= 0 || c.Matrix.GlowChance > 1 {
		c.Matrix.GlowChance = defaultGlowChance
	}
	if c.Matrix.ResetChance <= 0 || c.Matrix.ResetChance > 1 {
		c.Matrix.ResetChance = defaultResetChance
	}
	if c.Matrix.HeightRatio <= 0 || c.Matrix.HeightRatio >= 1 {
		c.Matrix.HeightRatio = defaultHeightRatio
	}

	def := defaultLoggingConfig()
	if c.Logging == (LoggingConfig{}) {
		c.Logging = def
		return
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Level
	}
	if c.Logging.File == "" && !c.Logging.Console {
		c.Logging.File = def.File
	}
	if c.Logging.Enabled == nil {
		c.Logging.Enabled = def.Enabled
	}
}
