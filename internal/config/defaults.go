package config

const (
	defaultDataDir        = "~/.local/share/flickvault"
	defaultLogDir         = "~/.local/share/flickvault/logs"
	defaultAPIBind        = "127.0.0.1:8787"
	defaultTMDBBaseURL    = "https://api.themoviedb.org/3"
	defaultTMDBLanguage   = "en-US"
	defaultLLMBaseURL     = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel       = "anthropic/claude-sonnet-4"
	defaultLLMReferer     = "https://github.com/flickvault/flickvault"
	defaultLLMTitle       = "Flickvault"
	defaultLLMTimeoutSecs = 60
	defaultTokenTTLHours  = 168
	defaultCookieName     = "token"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		TMDB: TMDB{
			BaseURL:  defaultTMDBBaseURL,
			Language: defaultTMDBLanguage,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSecs,
		},
		Auth: Auth{
			TokenTTLHours: defaultTokenTTLHours,
			CookieName:    defaultCookieName,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
