package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. TMDB and LLM API keys
// are intentionally not required here: authenticated requests may carry
// them per call, and the generation pipeline reports a configuration
// error when neither source provides one.
func (c *Config) Validate() error {
	if err := c.validateAuth(); err != nil {
		return err
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	if c.Paths.APIBind == "" {
		return errors.New("paths.api_bind must be set")
	}
	return nil
}

func (c *Config) validateAuth() error {
	if c.Auth.JWTSecret == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/flickvault/config.toml"
		}
		return fmt.Errorf("auth.jwt_secret is required. Set FLICKVAULT_JWT_SECRET env var or edit %s (create with 'flickvault config init')", defaultPath)
	}
	if c.Auth.TokenTTLHours <= 0 {
		return errors.New("auth.token_ttl_hours must be positive")
	}
	return nil
}
